package web_test

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

//
// ---------------- in-memory repo (same shape the usecase tests use) ----------------
//

type memSubscriptionRepo struct {
	mu    sync.Mutex
	subs  []*model.Subscription
	index map[string]int

	listErr error
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{index: map[string]int{}}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	if i, ok := m.index[sub.ID]; ok {
		m.subs[i] = &cp
		return nil
	}
	m.index[sub.ID] = len(m.subs)
	m.subs = append(m.subs, &cp)
	return nil
}

func (m *memSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m.subs[i]
	return &cp, nil
}

func (m *memSubscriptionRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSubscriptionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.subs = append(m.subs[:i], m.subs[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.subs); j++ {
		m.index[m.subs[j].ID] = j
	}
	return nil
}

func (m *memSubscriptionRepo) FindRenewingWithin(ctx context.Context, tx repository.Tx, fromDate, toDate string) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.subs {
		d := s.RenewalDate.String()
		if d >= fromDate && d <= toDate {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }
