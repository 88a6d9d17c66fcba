package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// PlaceAmenityService manages the amenities linked to a place.
type PlaceAmenityService struct {
	logger zerolog.Logger
}

func NewPlaceAmenityService(logger zerolog.Logger) *PlaceAmenityService {
	return &PlaceAmenityService{logger: logger}
}

// List returns the amenities linked to the place, in link order. Links to
// amenities that no longer exist are skipped.
func (s *PlaceAmenityService) List(ctx context.Context, sess ports.Session, placeID string) ([]domain.Entity, error) {
	place, err := s.place(ctx, sess, placeID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entity, 0, len(place.AmenityIDs))
	for _, id := range place.AmenityIDs {
		a, err := sess.Get(ctx, domain.KindAmenity, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *PlaceAmenityService) Link(ctx context.Context, sess ports.Session, placeID, amenityID string) (*domain.Amenity, bool, error) {
	place, amenity, err := s.pair(ctx, sess, placeID, amenityID)
	if err != nil {
		return nil, false, err
	}
	if !place.LinkAmenity(amenity.ID) {
		return amenity, false, nil
	}
	place.Touch()
	if err := sess.New(ctx, place); err != nil {
		return nil, false, err
	}
	if err := sess.Save(ctx); err != nil {
		return nil, false, err
	}
	s.logger.Debug().Str("place_id", placeID).Str("amenity_id", amenityID).Msg("amenity linked")
	return amenity, true, nil
}

// Unlink returns domain.ErrNotLinked when the amenity is not linked.
func (s *PlaceAmenityService) Unlink(ctx context.Context, sess ports.Session, placeID, amenityID string) error {
	place, amenity, err := s.pair(ctx, sess, placeID, amenityID)
	if err != nil {
		return err
	}
	if !place.UnlinkAmenity(amenity.ID) {
		return domain.ErrNotLinked
	}
	place.Touch()
	if err := sess.New(ctx, place); err != nil {
		return err
	}
	if err := sess.Save(ctx); err != nil {
		return err
	}
	s.logger.Debug().Str("place_id", placeID).Str("amenity_id", amenityID).Msg("amenity unlinked")
	return nil
}

func (s *PlaceAmenityService) place(ctx context.Context, sess ports.Session, id string) (*domain.Place, error) {
	e, err := sess.Get(ctx, domain.KindPlace, id)
	if err != nil {
		return nil, err
	}
	return e.(*domain.Place), nil
}

func (s *PlaceAmenityService) pair(ctx context.Context, sess ports.Session, placeID, amenityID string) (*domain.Place, *domain.Amenity, error) {
	place, err := s.place(ctx, sess, placeID)
	if err != nil {
		return nil, nil, err
	}
	e, err := sess.Get(ctx, domain.KindAmenity, amenityID)
	if err != nil {
		return nil, nil, err
	}
	return place, e.(*domain.Amenity), nil
}
