package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

type stubEngine struct {
	beginErr error
	sess     *stubSession
}

func (e *stubEngine) Name() string { return "stub" }

func (e *stubEngine) Begin(context.Context) (ports.Session, error) {
	if e.beginErr != nil {
		return nil, e.beginErr
	}
	return e.sess, nil
}

func (e *stubEngine) Ping(context.Context) error  { return nil }
func (e *stubEngine) Close(context.Context) error { return nil }

type stubSession struct {
	saves  int
	closed bool
}

func (s *stubSession) All(context.Context, domain.Kind) ([]domain.Entity, error) { return nil, nil }
func (s *stubSession) Get(context.Context, domain.Kind, string) (domain.Entity, error) {
	return nil, domain.ErrNotFound
}
func (s *stubSession) Where(context.Context, domain.Kind, string, string) ([]domain.Entity, error) {
	return nil, nil
}
func (s *stubSession) New(context.Context, domain.Entity) error    { return nil }
func (s *stubSession) Delete(context.Context, domain.Entity) error { return nil }
func (s *stubSession) Save(context.Context) error {
	s.saves++
	return nil
}
func (s *stubSession) Count(context.Context, domain.Kind) (int64, error) { return 0, nil }
func (s *stubSession) Close() error {
	s.closed = true
	return nil
}

type stubIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]ports.StoredResponse
	lookupErr error
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{responses: map[string]ports.StoredResponse{}}
}

func (s *stubIdempotencyStore) Lookup(_ context.Context, key string) (*ports.StoredResponse, bool, error) {
	if s.lookupErr != nil {
		return nil, false, s.lookupErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.responses[key]
	if !ok {
		return nil, false, nil
	}
	return &resp, true, nil
}

func (s *stubIdempotencyStore) Remember(_ context.Context, key string, resp ports.StoredResponse, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.responses[key]; !ok {
		s.responses[key] = resp
	}
	return nil
}

func (s *stubIdempotencyStore) Ping(context.Context) error { return nil }

var errStub = errors.New("stub failure")
