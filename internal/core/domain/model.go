package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind is the type discriminator of a record, rendered as "__class__".
type Kind string

const (
	KindAmenity Kind = "Amenity"
	KindCity    Kind = "City"
	KindPlace   Kind = "Place"
	KindReview  Kind = "Review"
	KindState   Kind = "State"
	KindUser    Kind = "User"
)

// Kinds lists every record type in a stable order.
var Kinds = []Kind{KindAmenity, KindCity, KindPlace, KindReview, KindState, KindUser}

// TimeFormat is the textual timestamp layout used in payloads and persisted files.
const TimeFormat = "2006-01-02T15:04:05.000000"

// ParseKind validates a type name.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Model carries the fields shared by every record.
type Model struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewModel assigns a fresh identifier and timestamps.
func NewModel() Model {
	now := time.Now().UTC()
	return Model{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}

func (m *Model) Base() *Model { return m }

// Touch records a mutation.
func (m *Model) Touch() {
	now := time.Now().UTC()
	if !now.After(m.UpdatedAt) {
		now = m.UpdatedAt.Add(time.Microsecond)
	}
	m.UpdatedAt = now
}

func (m *Model) fields(kind Kind) map[string]any {
	return map[string]any{
		"__class__":  string(kind),
		"id":         m.ID,
		"created_at": m.CreatedAt.UTC().Format(TimeFormat),
		"updated_at": m.UpdatedAt.UTC().Format(TimeFormat),
	}
}

// restore loads id and timestamps from a persisted mapping.
func (m *Model) restore(attrs map[string]any) error {
	if id, ok := attrs["id"].(string); ok && id != "" {
		m.ID = id
	}
	for key, dst := range map[string]*time.Time{"created_at": &m.CreatedAt, "updated_at": &m.UpdatedAt} {
		raw, ok := attrs[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %T", key, raw)
		}
		ts, err := ParseTime(s)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = ts
	}
	return nil
}

// ParseTime accepts TimeFormat and RFC 3339 timestamps.
func ParseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(TimeFormat, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

// Entity is implemented by every record type.
type Entity interface {
	Kind() Kind
	Base() *Model
	// ToMap is the public JSON representation.
	ToMap() map[string]any
	// Apply sets attributes by JSON field name. Unknown keys are ignored.
	Apply(attrs map[string]any) error
}

// Key is the storage key "Kind.id".
func Key(e Entity) string {
	return KeyOf(e.Kind(), e.Base().ID)
}

func KeyOf(kind Kind, id string) string {
	return string(kind) + "." + id
}

// Field returns the string value of a foreign key or other string attribute.
func Field(e Entity, name string) (string, bool) {
	v, ok := e.ToMap()[name].(string)
	return v, ok
}

// SortByCreation orders records oldest first, ties broken by id.
func SortByCreation(list []Entity) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Base(), list[j].Base()
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
