// Package service implements the commission side of the marketplace: the
// payment gate, bulk settlement, and single-entry overrides.
package service

import (
	"context"

	"github.com/google/uuid"

	"oficios_backend/internal/billing/cache"
	"oficios_backend/internal/billing/repository"
	"oficios_backend/internal/billing/transport"
	"oficios_backend/internal/events"
	"oficios_backend/internal/requests/domain"
	"oficios_backend/platform/apperr"
	"oficios_backend/platform/logger"
)

// Config narrows the configuration the billing service needs.
type Config interface {
	GetGateMaxPendingProfessional() int
	GetGateMaxPendingSupplier() int
	GetSettleBatchSize() int
}

// Service provides business logic for the commission ledger.
type Service struct {
	repo  repository.Repository
	cache *cache.SummaryCache
	bus   events.Bus
	cfg   Config
	log   *logger.Logger
}

// New creates a new billing service. cache may be nil when Redis is not
// configured; summaries then always come from the store.
func New(repo repository.Repository, summaryCache *cache.SummaryCache, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: summaryCache, bus: bus, cfg: cfg, log: log}
}

// EnsureCanTakeWork is the payment gate. A professional at or over the
// threshold for their kind may not claim or quote new work.
func (s *Service) EnsureCanTakeWork(ctx context.Context, professionalID uuid.UUID, kind domain.ProfessionalKind) error {
	summary, err := s.pendingSummary(ctx, professionalID)
	if err != nil {
		return err
	}

	threshold := s.thresholdFor(kind)
	if summary.PendingCount >= threshold {
		s.log.GateBlocked(professionalID, string(kind), summary.PendingCount)
		return domain.ErrPaymentGateBlocked(summary.PendingCount)
	}
	return nil
}

// GetSummary returns a professional's debt position, including whether the
// gate currently blocks them.
func (s *Service) GetSummary(ctx context.Context, professionalID uuid.UUID, kind domain.ProfessionalKind, includeEntries bool) (transport.PendingSummaryResponse, error) {
	summary, err := s.pendingSummary(ctx, professionalID)
	if err != nil {
		return transport.PendingSummaryResponse{}, err
	}

	threshold := s.thresholdFor(kind)
	resp := transport.PendingSummaryResponse{
		ProfessionalID: professionalID,
		PendingCount:   summary.PendingCount,
		TotalFees:      summary.TotalFees,
		Blocked:        summary.PendingCount >= threshold,
		Threshold:      threshold,
	}

	if includeEntries {
		entries, err := s.repo.ListPending(ctx, professionalID)
		if err != nil {
			return transport.PendingSummaryResponse{}, err
		}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, transport.CommissionEntryResponse{
				RequestID:            e.RequestID,
				QuotedAmount:         e.QuotedAmount,
				RateBps:              e.RateBps,
				PlatformFee:          e.PlatformFee,
				ProfessionalEarnings: e.ProfessionalEarnings,
				PaymentStatus:        string(e.PaymentStatus),
			})
		}
	}
	return resp, nil
}

// SettleAll marks every pending commission of a professional as Paid, one
// transaction per chunk. Each chunk commits independently, so an interrupted
// run leaves a prefix settled and the rest still pending; re-running finishes
// the job and settles nothing twice.
func (s *Service) SettleAll(ctx context.Context, professionalID uuid.UUID) (transport.SettleResponse, error) {
	before, err := s.repo.GetPendingSummary(ctx, professionalID)
	if err != nil {
		return transport.SettleResponse{}, err
	}

	batchSize := s.cfg.GetSettleBatchSize()
	var (
		settled    int
		chunks     int
		settledIDs []uuid.UUID
	)
	for {
		ids, err := s.repo.ListPendingIDs(ctx, professionalID, batchSize)
		if err != nil {
			return transport.SettleResponse{}, err
		}
		if len(ids) == 0 {
			break
		}

		n, err := s.repo.SettleChunk(ctx, ids)
		if err != nil {
			return transport.SettleResponse{}, err
		}
		settled += n
		chunks++
		settledIDs = append(settledIDs, ids...)

		if err := s.cache.Invalidate(ctx, professionalID); err != nil {
			s.log.Warn("summary cache invalidation failed", "professionalId", professionalID, "error", err)
		}
		if len(ids) < batchSize {
			break
		}
	}

	s.log.Settlement(professionalID, settled, chunks)
	if settled > 0 {
		s.bus.Publish(ctx, events.CommissionsSettled{
			BaseEvent:      events.NewBaseEvent(),
			ProfessionalID: professionalID,
			RequestIDs:     settledIDs,
			SettledCount:   settled,
			TotalFees:      before.TotalFees,
		})
	}

	return transport.SettleResponse{
		ProfessionalID: professionalID,
		SettledCount:   settled,
		Chunks:         chunks,
	}, nil
}

// SetPaymentStatus flips one ledger entry (admin override). Only requests
// that actually carry a billable commission are eligible.
func (s *Service) SetPaymentStatus(ctx context.Context, requestID uuid.UUID, adminID uuid.UUID, status domain.PaymentStatus) (transport.PaymentOverrideResponse, error) {
	if status != domain.PaymentPending && status != domain.PaymentPaid {
		return transport.PaymentOverrideResponse{}, apperr.Validation("unknown payment status")
	}

	entry, err := s.repo.SetPaymentStatus(ctx, requestID, status)
	if err != nil {
		return transport.PaymentOverrideResponse{}, err
	}

	if err := s.cache.Invalidate(ctx, entry.ProfessionalID); err != nil {
		s.log.Warn("summary cache invalidation failed", "professionalId", entry.ProfessionalID, "error", err)
	}

	s.log.Info("commission payment overridden",
		"requestId", requestID, "paymentStatus", status, "adminId", adminID)
	s.bus.Publish(ctx, events.CommissionPaymentOverridden{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      requestID,
		ProfessionalID: entry.ProfessionalID,
		PaymentStatus:  string(status),
		AdminID:        adminID,
	})

	return transport.PaymentOverrideResponse{
		RequestID:     requestID,
		PaymentStatus: string(status),
	}, nil
}

// InvalidateSummary drops the cached summary after an accrual elsewhere.
func (s *Service) InvalidateSummary(ctx context.Context, professionalID uuid.UUID) error {
	return s.cache.Invalidate(ctx, professionalID)
}

func (s *Service) pendingSummary(ctx context.Context, professionalID uuid.UUID) (repository.PendingSummary, error) {
	if cached, ok := s.cache.Get(ctx, professionalID); ok {
		return cached, nil
	}
	summary, err := s.repo.GetPendingSummary(ctx, professionalID)
	if err != nil {
		return repository.PendingSummary{}, err
	}
	if err := s.cache.Set(ctx, summary); err != nil {
		s.log.Warn("summary cache write failed", "professionalId", professionalID, "error", err)
	}
	return summary, nil
}

func (s *Service) thresholdFor(kind domain.ProfessionalKind) int {
	if kind == domain.KindSupplier {
		return s.cfg.GetGateMaxPendingSupplier()
	}
	return s.cfg.GetGateMaxPendingProfessional()
}
