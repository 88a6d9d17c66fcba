package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/api/metrics"
	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// ResourceService implements the uniform CRUD operations for every record type.
type ResourceService struct {
	logger zerolog.Logger
}

func NewResourceService(logger zerolog.Logger) *ResourceService {
	return &ResourceService{logger: logger}
}

func (s *ResourceService) List(ctx context.Context, sess ports.Session, kind domain.Kind) ([]domain.Entity, error) {
	list, err := sess.All(ctx, kind)
	if err != nil {
		return nil, err
	}
	domain.SortByCreation(list)
	return list, nil
}

func (s *ResourceService) ListByParent(ctx context.Context, sess ports.Session, kind domain.Kind, parentID string) ([]domain.Entity, error) {
	r := domain.ResourceOf(kind)
	if !r.Nested() {
		return nil, fmt.Errorf("%s has no parent type", kind)
	}
	if _, err := sess.Get(ctx, r.Parent, parentID); err != nil {
		return nil, err
	}
	list, err := sess.Where(ctx, kind, r.ParentKey, parentID)
	if err != nil {
		return nil, err
	}
	domain.SortByCreation(list)
	return list, nil
}

func (s *ResourceService) Get(ctx context.Context, sess ports.Session, kind domain.Kind, id string) (domain.Entity, error) {
	return sess.Get(ctx, kind, id)
}

// Create checks, in order: the parent exists, the body is a JSON object, the
// required fields are present, the referenced user exists.
func (s *ResourceService) Create(ctx context.Context, sess ports.Session, kind domain.Kind, parentID string, body []byte) (domain.Entity, error) {
	r := domain.ResourceOf(kind)
	if r.Nested() {
		if _, err := sess.Get(ctx, r.Parent, parentID); err != nil {
			return nil, err
		}
	}

	attrs, err := domain.ParseAttrs(body)
	if err != nil {
		return nil, err
	}
	for _, field := range r.Required {
		if _, ok := attrs[field]; !ok {
			return nil, domain.Missing(field)
		}
	}

	switch kind {
	case domain.KindPlace, domain.KindReview:
		userID, ok := attrs["user_id"].(string)
		if !ok {
			return nil, domain.Invalid("user_id")
		}
		if _, err := sess.Get(ctx, domain.KindUser, userID); err != nil {
			return nil, err
		}
	case domain.KindUser:
		email, ok := attrs["email"].(string)
		if !ok {
			return nil, domain.Invalid("email")
		}
		taken, err := sess.Where(ctx, domain.KindUser, "email", email)
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 {
			return nil, domain.ErrEmailTaken
		}
	}

	e, err := domain.New(kind)
	if err != nil {
		return nil, err
	}
	for _, field := range []string{"id", "created_at", "updated_at", "__class__"} {
		delete(attrs, field)
	}
	if r.Nested() {
		attrs[r.ParentKey] = parentID
	}
	if err := e.Apply(attrs); err != nil {
		return nil, err
	}

	if err := sess.New(ctx, e); err != nil {
		return nil, err
	}
	if err := sess.Save(ctx); err != nil {
		return nil, err
	}

	metrics.RecordsCreatedTotal.WithLabelValues(string(kind)).Inc()
	s.logger.Debug().Str("kind", string(kind)).Str("id", e.Base().ID).Msg("record created")
	return e, nil
}

// Update applies the non protected keys of body to the record.
func (s *ResourceService) Update(ctx context.Context, sess ports.Session, kind domain.Kind, id string, body []byte) (domain.Entity, error) {
	e, err := sess.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	attrs, err := domain.ParseAttrs(body)
	if err != nil {
		return nil, err
	}
	if err := e.Apply(domain.ResourceOf(kind).Writable(attrs)); err != nil {
		return nil, err
	}
	e.Base().Touch()

	if err := sess.New(ctx, e); err != nil {
		return nil, err
	}
	if err := sess.Save(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes the record and its dependents:
// State→Cities, City→Places, Place→Reviews, User→owned Places and written
// Reviews. Deleting an Amenity unlinks it from every Place.
func (s *ResourceService) Delete(ctx context.Context, sess ports.Session, kind domain.Kind, id string) error {
	e, err := sess.Get(ctx, kind, id)
	if err != nil {
		return err
	}

	removed := make(map[string]domain.Kind)
	if err := s.cascade(ctx, sess, e, removed); err != nil {
		return err
	}
	if err := sess.Save(ctx); err != nil {
		return err
	}

	for _, k := range removed {
		metrics.RecordsDeletedTotal.WithLabelValues(string(k)).Inc()
	}
	s.logger.Debug().Str("kind", string(kind)).Str("id", id).Int("removed", len(removed)).Msg("record deleted")
	return nil
}

func (s *ResourceService) cascade(ctx context.Context, sess ports.Session, e domain.Entity, removed map[string]domain.Kind) error {
	key := domain.Key(e)
	if _, done := removed[key]; done {
		return nil
	}
	removed[key] = e.Kind()

	id := e.Base().ID
	var children []domain.Entity
	collect := func(kind domain.Kind, field string) error {
		list, err := sess.Where(ctx, kind, field, id)
		if err != nil {
			return err
		}
		children = append(children, list...)
		return nil
	}

	var err error
	switch e.Kind() {
	case domain.KindState:
		err = collect(domain.KindCity, "state_id")
	case domain.KindCity:
		err = collect(domain.KindPlace, "city_id")
	case domain.KindPlace:
		err = collect(domain.KindReview, "place_id")
	case domain.KindUser:
		if err = collect(domain.KindPlace, "user_id"); err == nil {
			err = collect(domain.KindReview, "user_id")
		}
	case domain.KindAmenity:
		err = s.unlinkEverywhere(ctx, sess, id)
	}
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := s.cascade(ctx, sess, child, removed); err != nil {
			return err
		}
	}
	return sess.Delete(ctx, e)
}

func (s *ResourceService) unlinkEverywhere(ctx context.Context, sess ports.Session, amenityID string) error {
	places, err := sess.All(ctx, domain.KindPlace)
	if err != nil {
		return err
	}
	for _, e := range places {
		p, ok := e.(*domain.Place)
		if !ok || !p.UnlinkAmenity(amenityID) {
			continue
		}
		p.Touch()
		if err := sess.New(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts the live records of every type, keyed by plural name.
func (s *ResourceService) Stats(ctx context.Context, sess ports.Session) (map[string]int64, error) {
	out := make(map[string]int64, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		n, err := sess.Count(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", kind, err)
		}
		out[domain.ResourceOf(kind).Plural] = n
	}
	return out, nil
}
