// Package notification provides event handlers for sending billing emails in
// response to domain events. Domain modules publish events; this module owns
// the email provider and the reminder scheduling, inverting the dependency.
package notification

import (
	"context"
	"errors"
	"time"

	"oficios_backend/internal/email"
	"oficios_backend/internal/events"
	"oficios_backend/internal/scheduler"
	"oficios_backend/platform/logger"
)

// Config narrows the configuration the notification module needs.
type Config interface {
	GetReminderDelay() time.Duration
}

// Module subscribes to ledger events and fans them out to email and the
// reminder scheduler.
type Module struct {
	sender    email.Sender
	directory ProfessionalDirectory
	reminders scheduler.ReminderScheduler
	cfg       Config
	log       *logger.Logger
}

// NewModule creates the notification module. reminders may be nil when no
// scheduler is configured; reminder scheduling is then skipped.
func NewModule(sender email.Sender, directory ProfessionalDirectory, reminders scheduler.ReminderScheduler, cfg Config, log *logger.Logger) *Module {
	return &Module{
		sender:    sender,
		directory: directory,
		reminders: reminders,
		cfg:       cfg,
		log:       log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes to the ledger events this module reacts to.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.CommissionAccrued{}.EventName(), m)
	bus.Subscribe(events.CommissionsSettled{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CommissionAccrued:
		return m.handleCommissionAccrued(ctx, e)
	case events.CommissionsSettled:
		return m.handleCommissionsSettled(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleCommissionAccrued(ctx context.Context, e events.CommissionAccrued) error {
	contact, err := m.directory.GetContact(ctx, e.ProfessionalID)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			m.log.Warn("no contact for commission notification", "professionalId", e.ProfessionalID)
			return nil
		}
		return err
	}

	if err := m.sender.SendCommissionAccrued(ctx, contact.Email, e.RequestTitle, e.PlatformFee, e.ProfessionalEarnings); err != nil {
		m.log.Error("commission accrued email failed", "professionalId", e.ProfessionalID, "error", err)
		return err
	}

	if m.reminders != nil {
		runAt := time.Now().Add(m.cfg.GetReminderDelay())
		err := m.reminders.ScheduleCommissionReminder(ctx, scheduler.CommissionReminderPayload{
			ProfessionalID: e.ProfessionalID.String(),
			Email:          contact.Email,
		}, runAt)
		if err != nil {
			m.log.Error("reminder scheduling failed", "professionalId", e.ProfessionalID, "error", err)
		}
	}
	return nil
}

func (m *Module) handleCommissionsSettled(ctx context.Context, e events.CommissionsSettled) error {
	contact, err := m.directory.GetContact(ctx, e.ProfessionalID)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return nil
		}
		return err
	}

	if err := m.sender.SendSettlementReceipt(ctx, contact.Email, e.SettledCount, e.TotalFees); err != nil {
		m.log.Error("settlement receipt email failed", "professionalId", e.ProfessionalID, "error", err)
		return err
	}
	return nil
}
