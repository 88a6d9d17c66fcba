package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

func init() {
	domain.PasswordCost = bcrypt.MinCost
}

// stubSession is an in-memory session that applies writes immediately.
type stubSession struct {
	records map[string]domain.Entity
	order   []string
	saves   int
	saveErr error // if set, Save returns this error
}

func newStubSession(seed ...domain.Entity) *stubSession {
	s := &stubSession{records: make(map[string]domain.Entity)}
	for _, e := range seed {
		_ = s.New(context.Background(), e)
	}
	return s
}

func (s *stubSession) All(_ context.Context, kind domain.Kind) ([]domain.Entity, error) {
	var out []domain.Entity
	for _, key := range s.order {
		e, ok := s.records[key]
		if !ok {
			continue
		}
		if kind == "" || e.Kind() == kind {
			out = append(out, domain.Clone(e))
		}
	}
	return out, nil
}

func (s *stubSession) Get(_ context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	e, ok := s.records[domain.KeyOf(kind, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.Clone(e), nil
}

func (s *stubSession) Where(ctx context.Context, kind domain.Kind, field, value string) ([]domain.Entity, error) {
	all, _ := s.All(ctx, kind)
	var out []domain.Entity
	for _, e := range all {
		if v, ok := domain.Field(e, field); ok && v == value {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubSession) New(_ context.Context, e domain.Entity) error {
	key := domain.Key(e)
	if _, exists := s.records[key]; !exists {
		s.order = append(s.order, key)
	}
	s.records[key] = domain.Clone(e)
	return nil
}

func (s *stubSession) Delete(_ context.Context, e domain.Entity) error {
	delete(s.records, domain.Key(e))
	return nil
}

func (s *stubSession) Save(context.Context) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	return nil
}

func (s *stubSession) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	all, _ := s.All(ctx, kind)
	return int64(len(all)), nil
}

func (s *stubSession) Close() error { return nil }

func (s *stubSession) has(kind domain.Kind, id string) bool {
	_, ok := s.records[domain.KeyOf(kind, id)]
	return ok
}
