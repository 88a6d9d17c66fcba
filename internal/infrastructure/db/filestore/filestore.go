// Package filestore keeps every record in memory and persists the whole graph
// as a single JSON object keyed by "Kind.id".
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db/staging"
)

const Name = "file"

type Config struct {
	Path string
}

type Store struct {
	path    string
	log     zerolog.Logger
	mu      sync.RWMutex
	objects map[string]domain.Entity
}

// Open loads the file at cfg.Path. A missing file yields an empty store.
func Open(cfg Config, log zerolog.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("filestore: empty path")
	}
	s := &Store{path: cfg.Path, log: log, objects: make(map[string]domain.Entity)}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Name() string { return Name }

func (s *Store) reload() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("filestore: read %s: %w", s.path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}

	var doc map[string]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("filestore: parse %s: %w", s.path, err)
	}

	objects := make(map[string]domain.Entity, len(doc))
	for key, attrs := range doc {
		name, _ := attrs["__class__"].(string)
		if name == "" {
			name, _, _ = strings.Cut(key, ".")
		}
		kind, ok := domain.ParseKind(name)
		if !ok {
			s.log.Warn().Str("key", key).Msg("skipping record of unknown type")
			continue
		}
		e, err := domain.Decode(kind, attrs)
		if err != nil {
			return fmt.Errorf("filestore: %s: %w", key, err)
		}
		objects[domain.Key(e)] = e
	}

	s.mu.Lock()
	s.objects = objects
	s.mu.Unlock()

	s.log.Debug().Int("records", len(objects)).Str("path", s.path).Msg("file storage loaded")
	return nil
}

// Begin returns a session; the file store never fails to open one.
func (s *Store) Begin(context.Context) (ports.Session, error) {
	return &session{store: s, stage: staging.New()}, nil
}

func (s *Store) Ping(context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) snapshot(kind domain.Kind, match func(domain.Entity) bool) []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Entity, 0, len(s.objects))
	for _, e := range s.objects {
		if kind != "" && e.Kind() != kind {
			continue
		}
		if match != nil && !match(e) {
			continue
		}
		out = append(out, domain.Clone(e))
	}
	return out
}

func (s *Store) lookup(kind domain.Kind, id string) (domain.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[domain.KeyOf(kind, id)]
	if !ok {
		return nil, false
	}
	return domain.Clone(e), true
}

// commit applies changes and rewrites the file. The in-memory graph is only
// replaced once the file has been written.
func (s *Store) commit(changes []staging.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]domain.Entity, len(s.objects)+len(changes))
	for k, v := range s.objects {
		next[k] = v
	}
	for _, ch := range changes {
		key := domain.Key(ch.Entity)
		if ch.Deleted {
			delete(next, key)
			continue
		}
		if _, ok := next[key]; !ok && ch.Loaded {
			s.log.Debug().Str("key", key).Msg("skipping update of a record deleted by another session")
			continue
		}
		next[key] = domain.Clone(ch.Entity)
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.objects = next
	return nil
}

func (s *Store) write(objects map[string]domain.Entity) error {
	doc := make(map[string]map[string]any, len(objects))
	for key, e := range objects {
		doc[key] = domain.Snapshot(e)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("filestore: rename: %w", err)
	}
	return nil
}

type session struct {
	store *Store
	stage *staging.Stage
}

func (x *session) All(_ context.Context, kind domain.Kind) ([]domain.Entity, error) {
	return x.stage.Merge(x.store.snapshot(kind, nil), kind, nil), nil
}

func (x *session) Get(_ context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	if e, found := x.stage.Lookup(kind, id); found {
		if e == nil {
			return nil, domain.ErrNotFound
		}
		return e, nil
	}
	if e, ok := x.store.lookup(kind, id); ok {
		x.stage.Loaded(e)
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (x *session) Where(_ context.Context, kind domain.Kind, field, value string) ([]domain.Entity, error) {
	match := staging.FieldEquals(field, value)
	return x.stage.Merge(x.store.snapshot(kind, match), kind, match), nil
}

func (x *session) New(_ context.Context, e domain.Entity) error {
	x.stage.Put(e)
	return nil
}

func (x *session) Delete(_ context.Context, e domain.Entity) error {
	if e == nil {
		return nil
	}
	x.stage.Remove(e)
	return nil
}

func (x *session) Save(context.Context) error {
	if x.stage.Empty() {
		return nil
	}
	if err := x.store.commit(x.stage.Changes()); err != nil {
		return err
	}
	x.stage.Reset()
	return nil
}

func (x *session) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	all, err := x.All(ctx, kind)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (x *session) Close() error {
	x.stage.Reset()
	return nil
}
