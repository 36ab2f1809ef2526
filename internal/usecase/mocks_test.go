package usecase_test

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/adapter"
	"subscription-tracker/internal/domain/ports/repository"
	"subscription-tracker/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memSubscriptionRepo is a small in-memory implementation used by unit
// tests. It keeps insertion order, like the Postgres repo's ORDER BY.
type memSubscriptionRepo struct {
	mu      sync.RWMutex
	order   []string
	store   map[string]*model.Subscription
	saveErr error
	listErr error
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[sub.ID]; !ok {
		m.order = append(m.order, sub.ID)
	}
	cp := *sub
	m.store[sub.ID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Subscription, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.store[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSubscriptionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memSubscriptionRepo) FindRenewingWithin(ctx context.Context, tx repository.Tx, fromDate, toDate string) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, id := range m.order {
		s := m.store[id]
		d := s.RenewalDate.String()
		if d >= fromDate && d <= toDate {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memReminderLogRepo mirrors the unique-constraint behavior of the real
// table: one row per (subscription, renewal date, lead days).
type memReminderLogRepo struct {
	mu    sync.Mutex
	seen  map[[2]string]map[int]bool
	saved []*model.ReminderLog
}

func newMemReminderLogRepo() *memReminderLogRepo {
	return &memReminderLogRepo{seen: make(map[[2]string]map[int]bool)}
}

func (m *memReminderLogRepo) Save(ctx context.Context, tx repository.Tx, entry *model.ReminderLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{entry.SubscriptionID, entry.RenewalDate.String()}
	if m.seen[key] == nil {
		m.seen[key] = make(map[int]bool)
	}
	if m.seen[key][entry.DaysBefore] {
		return domain.ErrAlreadyExists
	}
	m.seen[key][entry.DaysBefore] = true
	cp := *entry
	m.saved = append(m.saved, &cp)
	return nil
}

func (m *memReminderLogRepo) Exists(ctx context.Context, tx repository.Tx, subscriptionID, renewalDate string, daysBefore int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[[2]string{subscriptionID, renewalDate}][daysBefore], nil
}

// mockNotifier records deliveries and can simulate failures.
type mockNotifier struct {
	mu      sync.Mutex
	sent    []adapter.Reminder
	sendErr error
}

func (m *mockNotifier) SendReminder(ctx context.Context, r adapter.Reminder) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, r)
	return nil
}

// mockSummaryCache is a map-backed usecase.SummaryCache.
type mockSummaryCache struct {
	mu     sync.Mutex
	store  map[string]*usecase.Summary
	gets   int
	hits   int
	stores int
}

func newMockSummaryCache() *mockSummaryCache {
	return &mockSummaryCache{store: make(map[string]*usecase.Summary)}
}

func (m *mockSummaryCache) GetSummary(ctx context.Context, key string) (*usecase.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	s, ok := m.store[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.hits++
	return s, nil
}

func (m *mockSummaryCache) StoreSummary(ctx context.Context, key string, s *usecase.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores++
	m.store[key] = s
	return nil
}

// mockTxManager runs the callback directly; repositories in these tests
// ignore the tx handle anyway.
type mockTxManager struct {
	withTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.withTxFunc != nil {
		return m.withTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}
