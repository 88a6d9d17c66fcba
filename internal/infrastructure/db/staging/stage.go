// Package staging buffers the writes of a session until it is saved, and
// overlays them on committed reads so a session observes its own changes.
package staging

import (
	"github.com/hbnb/hbnb-api/internal/core/domain"
)

type Stage struct {
	upserts map[string]domain.Entity
	deletes map[string]domain.Entity
	order   []string
	// loaded holds the keys this session read from committed storage.
	loaded map[string]struct{}
}

func New() *Stage {
	s := &Stage{}
	s.Reset()
	return s
}

func (s *Stage) Reset() {
	s.upserts = make(map[string]domain.Entity)
	s.deletes = make(map[string]domain.Entity)
	s.order = nil
	s.loaded = make(map[string]struct{})
}

// Loaded records that e was read from committed storage.
func (s *Stage) Loaded(e domain.Entity) {
	s.loaded[domain.Key(e)] = struct{}{}
}

func (s *Stage) Empty() bool {
	return len(s.upserts) == 0 && len(s.deletes) == 0
}

// Put stages an insert or update of e.
func (s *Stage) Put(e domain.Entity) {
	key := domain.Key(e)
	delete(s.deletes, key)
	s.upserts[key] = domain.Clone(e)
	s.touch(key)
}

// Remove stages the deletion of e.
func (s *Stage) Remove(e domain.Entity) {
	key := domain.Key(e)
	delete(s.upserts, key)
	s.deletes[key] = domain.Clone(e)
	s.touch(key)
}

func (s *Stage) touch(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.order = append(s.order, key)
}

// Lookup reports whether the stage decides the fate of the record: found is
// true when it was staged, and e is nil when it was staged for deletion.
func (s *Stage) Lookup(kind domain.Kind, id string) (e domain.Entity, found bool) {
	key := domain.KeyOf(kind, id)
	if v, ok := s.upserts[key]; ok {
		return domain.Clone(v), true
	}
	if _, ok := s.deletes[key]; ok {
		return nil, true
	}
	return nil, false
}

// Merge overlays staged writes on committed records of kind (every kind when
// empty). match filters staged records the same way the committed query did;
// nil matches everything.
func (s *Stage) Merge(committed []domain.Entity, kind domain.Kind, match func(domain.Entity) bool) []domain.Entity {
	out := make([]domain.Entity, 0, len(committed))
	seen := make(map[string]struct{}, len(committed))
	for _, e := range committed {
		key := domain.Key(e)
		seen[key] = struct{}{}
		s.loaded[key] = struct{}{}
		if _, gone := s.deletes[key]; gone {
			continue
		}
		if v, ok := s.upserts[key]; ok {
			if match == nil || match(v) {
				out = append(out, domain.Clone(v))
			}
			continue
		}
		out = append(out, e)
	}
	for _, key := range s.order {
		v, ok := s.upserts[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if kind != "" && v.Kind() != kind {
			continue
		}
		if match == nil || match(v) {
			out = append(out, domain.Clone(v))
		}
	}
	return out
}

// Change is a staged write in staging order. Deleted is true for removals.
// Loaded is true when the record was read from committed storage, so an
// upsert of it must not recreate a row another session removed meanwhile.
type Change struct {
	Entity  domain.Entity
	Deleted bool
	Loaded  bool
}

func (s *Stage) Changes() []Change {
	out := make([]Change, 0, len(s.order))
	for _, key := range s.order {
		if v, ok := s.upserts[key]; ok {
			_, loaded := s.loaded[key]
			out = append(out, Change{Entity: v, Loaded: loaded})
		} else if v, ok := s.deletes[key]; ok {
			out = append(out, Change{Entity: v, Deleted: true})
		}
	}
	return out
}

// FieldEquals is a Merge matcher for Where queries.
func FieldEquals(field, value string) func(domain.Entity) bool {
	return func(e domain.Entity) bool {
		v, ok := domain.Field(e, field)
		return ok && v == value
	}
}
