package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"oficios_backend/internal/billing/cache"
	"oficios_backend/internal/billing/repository"
	"oficios_backend/internal/events"
	"oficios_backend/internal/requests/domain"
	"oficios_backend/platform/apperr"
	"oficios_backend/platform/logger"
)

// fakeLedger is an in-memory commission ledger with stable ordering.
type fakeLedger struct {
	mu    sync.Mutex
	order map[uuid.UUID][]uuid.UUID
	byID  map[uuid.UUID]repository.LedgerEntry
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		order: make(map[uuid.UUID][]uuid.UUID),
		byID:  make(map[uuid.UUID]repository.LedgerEntry),
	}
}

var _ repository.Repository = (*fakeLedger)(nil)

func (l *fakeLedger) accrue(professionalID uuid.UUID, platformFee int64) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := repository.LedgerEntry{
		RequestID:            uuid.New(),
		ProfessionalID:       professionalID,
		QuotedAmount:         platformFee * 10,
		RateBps:              1000,
		PlatformFee:          platformFee,
		ProfessionalEarnings: platformFee * 9,
		PaymentStatus:        domain.PaymentPending,
		UpdatedAt:            time.Now(),
	}
	l.order[professionalID] = append(l.order[professionalID], entry.RequestID)
	l.byID[entry.RequestID] = entry
	return entry.RequestID
}

func (l *fakeLedger) pending(professionalID uuid.UUID) []repository.LedgerEntry {
	var out []repository.LedgerEntry
	for _, id := range l.order[professionalID] {
		if e := l.byID[id]; e.PaymentStatus == domain.PaymentPending {
			out = append(out, e)
		}
	}
	return out
}

func (l *fakeLedger) GetPendingSummary(_ context.Context, professionalID uuid.UUID) (repository.PendingSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	summary := repository.PendingSummary{ProfessionalID: professionalID}
	for _, e := range l.pending(professionalID) {
		summary.PendingCount++
		summary.TotalFees += e.PlatformFee
	}
	return summary, nil
}

func (l *fakeLedger) ListPending(_ context.Context, professionalID uuid.UUID) ([]repository.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending(professionalID), nil
}

func (l *fakeLedger) ListPendingIDs(_ context.Context, professionalID uuid.UUID, limit int) ([]uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ids []uuid.UUID
	for _, e := range l.pending(professionalID) {
		ids = append(ids, e.RequestID)
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func (l *fakeLedger) SettleChunk(_ context.Context, ids []uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var flipped int
	for _, id := range ids {
		if entry, ok := l.byID[id]; ok && entry.PaymentStatus == domain.PaymentPending {
			entry.PaymentStatus = domain.PaymentPaid
			l.byID[id] = entry
			flipped++
		}
	}
	return flipped, nil
}

func (l *fakeLedger) SetPaymentStatus(_ context.Context, requestID uuid.UUID, status domain.PaymentStatus) (repository.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.byID[requestID]
	if !ok {
		return repository.LedgerEntry{}, domain.ErrRequestNotFound()
	}
	if entry.PlatformFee <= 0 {
		return repository.LedgerEntry{}, apperr.Validation("request carries no billable commission")
	}
	prior := entry
	entry.PaymentStatus = status
	l.byID[requestID] = entry
	return prior, nil
}

// nopBus swallows events so the service can publish freely in tests.
type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event) {}

func (nopBus) PublishSync(context.Context, events.Event) error { return nil }

func (nopBus) Subscribe(string, events.Handler) {}

type stubConfig struct {
	maxProfessional int
	maxSupplier     int
	batchSize       int
}

func (c stubConfig) GetGateMaxPendingProfessional() int { return c.maxProfessional }
func (c stubConfig) GetGateMaxPendingSupplier() int     { return c.maxSupplier }
func (c stubConfig) GetSettleBatchSize() int            { return c.batchSize }

func defaultConfig() stubConfig {
	return stubConfig{maxProfessional: 1, maxSupplier: 5, batchSize: 500}
}

func newService(t *testing.T, ledger *fakeLedger, summaryCache *cache.SummaryCache, cfg stubConfig) *Service {
	t.Helper()
	return New(ledger, summaryCache, nopBus{}, cfg, logger.New("test"))
}

func TestGateBlocksProfessionalAtOnePending(t *testing.T) {
	ledger := newFakeLedger()
	svc := newService(t, ledger, nil, defaultConfig())
	pro := uuid.New()
	ctx := context.Background()

	if err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional); err != nil {
		t.Fatalf("clean professional must pass the gate: %v", err)
	}

	ledger.accrue(pro, 10000)
	err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional)
	if !apperr.HasCode(err, apperr.CodePaymentGateBlocked) {
		t.Fatalf("expected gate block at one pending commission, got %v", err)
	}
}

func TestGateAllowsSupplierUpToThreshold(t *testing.T) {
	ledger := newFakeLedger()
	svc := newService(t, ledger, nil, defaultConfig())
	supplier := uuid.New()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		ledger.accrue(supplier, 5000)
	}
	if err := svc.EnsureCanTakeWork(ctx, supplier, domain.KindSupplier); err != nil {
		t.Fatalf("supplier with 4 pending must pass the gate: %v", err)
	}

	ledger.accrue(supplier, 5000)
	err := svc.EnsureCanTakeWork(ctx, supplier, domain.KindSupplier)
	if !apperr.HasCode(err, apperr.CodePaymentGateBlocked) {
		t.Fatalf("expected gate block at 5 pending commissions, got %v", err)
	}
}

func TestGetSummaryReportsDebtAndEntries(t *testing.T) {
	ledger := newFakeLedger()
	svc := newService(t, ledger, nil, defaultConfig())
	pro := uuid.New()
	ctx := context.Background()

	ledger.accrue(pro, 10000)
	ledger.accrue(pro, 4000)

	resp, err := svc.GetSummary(ctx, pro, domain.KindProfessional, true)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if resp.PendingCount != 2 || resp.TotalFees != 14000 {
		t.Fatalf("unexpected summary %d/%d", resp.PendingCount, resp.TotalFees)
	}
	if !resp.Blocked || resp.Threshold != 1 {
		t.Fatalf("expected blocked summary with threshold 1, got %+v", resp)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
}

func TestSettleAllIsIdempotent(t *testing.T) {
	ledger := newFakeLedger()
	svc := newService(t, ledger, nil, defaultConfig())
	pro := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ledger.accrue(pro, 10000)
	}

	resp, err := svc.SettleAll(ctx, pro)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if resp.SettledCount != 3 || resp.Chunks != 1 {
		t.Fatalf("expected 3 settled in 1 chunk, got %d/%d", resp.SettledCount, resp.Chunks)
	}

	if err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional); err != nil {
		t.Fatalf("gate must open after settlement: %v", err)
	}

	resp, err = svc.SettleAll(ctx, pro)
	if err != nil {
		t.Fatalf("re-settle: %v", err)
	}
	if resp.SettledCount != 0 || resp.Chunks != 0 {
		t.Fatalf("re-run must settle nothing, got %d/%d", resp.SettledCount, resp.Chunks)
	}
}

func TestSettleAllChunks(t *testing.T) {
	ledger := newFakeLedger()
	cfg := defaultConfig()
	cfg.batchSize = 2
	svc := newService(t, ledger, nil, cfg)
	pro := uuid.New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ledger.accrue(pro, 1000)
	}

	resp, err := svc.SettleAll(ctx, pro)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if resp.SettledCount != 5 {
		t.Fatalf("expected 5 settled, got %d", resp.SettledCount)
	}
	if resp.Chunks != 3 {
		t.Fatalf("expected 3 chunks of batch size 2, got %d", resp.Chunks)
	}

	summary, err := ledger.GetPendingSummary(ctx, pro)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PendingCount != 0 {
		t.Fatalf("expected empty ledger, %d still pending", summary.PendingCount)
	}
}

func TestSettleAllEmptyLedger(t *testing.T) {
	svc := newService(t, newFakeLedger(), nil, defaultConfig())

	resp, err := svc.SettleAll(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if resp.SettledCount != 0 || resp.Chunks != 0 {
		t.Fatalf("expected no-op on empty ledger, got %d/%d", resp.SettledCount, resp.Chunks)
	}
}

func TestSetPaymentStatusOverride(t *testing.T) {
	ledger := newFakeLedger()
	svc := newService(t, ledger, nil, defaultConfig())
	pro := uuid.New()
	admin := uuid.New()
	ctx := context.Background()

	requestID := ledger.accrue(pro, 10000)

	resp, err := svc.SetPaymentStatus(ctx, requestID, admin, domain.PaymentPaid)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if resp.PaymentStatus != string(domain.PaymentPaid) {
		t.Fatalf("expected Paid, got %s", resp.PaymentStatus)
	}
	if err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional); err != nil {
		t.Fatalf("gate must open after override: %v", err)
	}

	// Flip back to Pending closes the gate again.
	if _, err := svc.SetPaymentStatus(ctx, requestID, admin, domain.PaymentPending); err != nil {
		t.Fatalf("override back: %v", err)
	}
	if err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional); !apperr.HasCode(err, apperr.CodePaymentGateBlocked) {
		t.Fatalf("expected gate block after pending override, got %v", err)
	}

	if _, err := svc.SetPaymentStatus(ctx, requestID, admin, domain.PaymentStatus("Refunded")); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	if _, err := svc.SetPaymentStatus(ctx, uuid.New(), admin, domain.PaymentPaid); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for unknown request, got %v", err)
	}
}

func TestGateSeesFreshStateAfterCachedSettlement(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	summaryCache := cache.NewWithClient(client, time.Minute)
	t.Cleanup(func() { _ = summaryCache.Close() })

	ledger := newFakeLedger()
	svc := newService(t, ledger, summaryCache, defaultConfig())
	pro := uuid.New()
	ctx := context.Background()

	ledger.accrue(pro, 10000)

	// First read populates the cache with the blocked summary.
	if err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional); !apperr.HasCode(err, apperr.CodePaymentGateBlocked) {
		t.Fatalf("expected gate block, got %v", err)
	}

	// Settlement invalidates the cache, so the gate opens immediately.
	if _, err := svc.SettleAll(ctx, pro); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if err := svc.EnsureCanTakeWork(ctx, pro, domain.KindProfessional); err != nil {
		t.Fatalf("gate must see the settlement through the cache: %v", err)
	}
}
