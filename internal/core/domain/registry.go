package domain

import (
	"fmt"
	"maps"
)

// New returns a fresh record of the given kind with a new id and timestamps.
func New(kind Kind) (Entity, error) {
	switch kind {
	case KindAmenity:
		return NewAmenity(), nil
	case KindCity:
		return NewCity(), nil
	case KindPlace:
		return NewPlace(), nil
	case KindReview:
		return NewReview(), nil
	case KindState:
		return NewState(), nil
	case KindUser:
		return NewUser(), nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// Snapshot is the persisted form of a record: the public map plus the
// password hash of users.
func Snapshot(e Entity) map[string]any {
	m := e.ToMap()
	if u, ok := e.(*User); ok {
		m["password"] = u.PasswordHash
	}
	return m
}

// Decode rebuilds a record from its persisted form. Passwords are taken as
// already hashed and amenity links are restored verbatim.
func Decode(kind Kind, attrs map[string]any) (Entity, error) {
	e, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := e.Base().restore(attrs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	rest := maps.Clone(attrs)
	delete(rest, "password")
	delete(rest, "amenities")
	if err := e.Apply(rest); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	switch v := e.(type) {
	case *User:
		if hash, ok := attrs["password"].(string); ok {
			v.PasswordHash = hash
		}
	case *Place:
		if raw, ok := attrs["amenities"]; ok {
			ids, ok := stringList(raw)
			if !ok {
				return nil, fmt.Errorf("decode %s: amenities: expected list of ids", kind)
			}
			v.AmenityIDs = ids
		}
	}
	return e, nil
}

// Clone returns a deep copy so callers can mutate without affecting shared state.
func Clone(e Entity) Entity {
	switch v := e.(type) {
	case *Amenity:
		c := *v
		return &c
	case *City:
		c := *v
		return &c
	case *Place:
		c := *v
		c.AmenityIDs = append([]string{}, v.AmenityIDs...)
		return &c
	case *Review:
		c := *v
		return &c
	case *State:
		c := *v
		return &c
	case *User:
		c := *v
		return &c
	}
	return e
}
