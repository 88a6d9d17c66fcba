package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/api/metrics"
	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

type SearchService struct {
	logger zerolog.Logger
}

func NewSearchService(logger zerolog.Logger) *SearchService {
	return &SearchService{logger: logger}
}

// Search returns every place for empty criteria. Otherwise it collects the
// places of the given states' cities and of the given cities, in first-seen
// order, and keeps those linked to every requested amenity. When only
// amenities are given, or the states and cities yield nothing, every place is
// a candidate. Unknown ids match nothing.
func (s *SearchService) Search(ctx context.Context, sess ports.Session, criteria ports.SearchCriteria) ([]*domain.Place, error) {
	var pool []*domain.Place
	var err error

	if criteria.Empty() {
		pool, err = s.allPlaces(ctx, sess)
		if err != nil {
			return nil, err
		}
		metrics.PlacesSearchResults.Observe(float64(len(pool)))
		return pool, nil
	}

	seen := make(map[string]struct{})
	add := func(cityID string) error {
		list, err := sess.Where(ctx, domain.KindPlace, "city_id", cityID)
		if err != nil {
			return err
		}
		domain.SortByCreation(list)
		for _, e := range list {
			if _, dup := seen[e.Base().ID]; dup {
				continue
			}
			seen[e.Base().ID] = struct{}{}
			pool = append(pool, e.(*domain.Place))
		}
		return nil
	}

	for _, stateID := range criteria.States {
		if _, err := sess.Get(ctx, domain.KindState, stateID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		cities, err := sess.Where(ctx, domain.KindCity, "state_id", stateID)
		if err != nil {
			return nil, err
		}
		domain.SortByCreation(cities)
		for _, c := range cities {
			if err := add(c.Base().ID); err != nil {
				return nil, err
			}
		}
	}

	for _, cityID := range criteria.Cities {
		if _, err := sess.Get(ctx, domain.KindCity, cityID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if err := add(cityID); err != nil {
			return nil, err
		}
	}

	if len(criteria.Amenities) > 0 {
		if len(pool) == 0 {
			if pool, err = s.allPlaces(ctx, sess); err != nil {
				return nil, err
			}
		}
		pool, err = s.withAmenities(ctx, sess, pool, criteria.Amenities)
		if err != nil {
			return nil, err
		}
	}

	metrics.PlacesSearchResults.Observe(float64(len(pool)))
	s.logger.Debug().
		Int("states", len(criteria.States)).
		Int("cities", len(criteria.Cities)).
		Int("amenities", len(criteria.Amenities)).
		Int("results", len(pool)).
		Msg("places search")
	return pool, nil
}

func (s *SearchService) allPlaces(ctx context.Context, sess ports.Session) ([]*domain.Place, error) {
	list, err := sess.All(ctx, domain.KindPlace)
	if err != nil {
		return nil, err
	}
	domain.SortByCreation(list)
	out := make([]*domain.Place, 0, len(list))
	for _, e := range list {
		out = append(out, e.(*domain.Place))
	}
	return out, nil
}

func (s *SearchService) withAmenities(ctx context.Context, sess ports.Session, pool []*domain.Place, amenityIDs []string) ([]*domain.Place, error) {
	for _, id := range amenityIDs {
		if _, err := sess.Get(ctx, domain.KindAmenity, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []*domain.Place{}, nil
			}
			return nil, err
		}
	}

	out := make([]*domain.Place, 0, len(pool))
	for _, p := range pool {
		all := true
		for _, id := range amenityIDs {
			if !p.HasAmenity(id) {
				all = false
				break
			}
		}
		if all {
			out = append(out, p)
		}
	}
	return out, nil
}
