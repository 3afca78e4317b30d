package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"oficios_backend/internal/billing/repository"
	"oficios_backend/internal/email"
	"oficios_backend/platform/config"
	"oficios_backend/platform/logger"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.Repository
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskCommissionReminder, w.handleCommissionReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleCommissionReminder re-checks the ledger before sending. Commissions
// settled between enqueue and delivery make the reminder a no-op.
func (w *Worker) handleCommissionReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCommissionReminderPayload(task)
	if err != nil {
		return err
	}

	professionalID, err := uuid.Parse(payload.ProfessionalID)
	if err != nil {
		return err
	}
	if payload.Email == "" {
		return nil
	}

	summary, err := w.repo.GetPendingSummary(ctx, professionalID)
	if err != nil {
		return err
	}
	if summary.PendingCount == 0 {
		return nil
	}

	if err := w.sender.SendCommissionReminder(ctx, payload.Email, summary.PendingCount, summary.TotalFees); err != nil {
		return err
	}

	w.log.Info("commission reminder sent",
		"professionalId", professionalID, "pendingCount", summary.PendingCount)
	return nil
}
