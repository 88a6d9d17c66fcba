package ports

import (
	"context"
	"time"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

// ResourceService implements the uniform CRUD operations shared by every type.
type ResourceService interface {
	List(ctx context.Context, sess Session, kind domain.Kind) ([]domain.Entity, error)
	// ListByParent returns the children of a parent record, or domain.ErrNotFound
	// when the parent does not exist.
	ListByParent(ctx context.Context, sess Session, kind domain.Kind, parentID string) ([]domain.Entity, error)
	Get(ctx context.Context, sess Session, kind domain.Kind, id string) (domain.Entity, error)
	// Create validates body and persists a new record. parentID is ignored for
	// top level types.
	Create(ctx context.Context, sess Session, kind domain.Kind, parentID string, body []byte) (domain.Entity, error)
	Update(ctx context.Context, sess Session, kind domain.Kind, id string, body []byte) (domain.Entity, error)
	// Delete removes the record and everything that depends on it.
	Delete(ctx context.Context, sess Session, kind domain.Kind, id string) error
	// Stats counts the records of every type keyed by plural name.
	Stats(ctx context.Context, sess Session) (map[string]int64, error)
}

// SearchCriteria filters places. Empty criteria match every place.
type SearchCriteria struct {
	States    []string
	Cities    []string
	Amenities []string
}

func (c SearchCriteria) Empty() bool {
	return len(c.States) == 0 && len(c.Cities) == 0 && len(c.Amenities) == 0
}

type SearchService interface {
	Search(ctx context.Context, sess Session, criteria SearchCriteria) ([]*domain.Place, error)
}

// PlaceAmenityService manages the Place↔Amenity association.
type PlaceAmenityService interface {
	List(ctx context.Context, sess Session, placeID string) ([]domain.Entity, error)
	// Link reports created=false when the amenity was already linked.
	Link(ctx context.Context, sess Session, placeID, amenityID string) (amenity *domain.Amenity, created bool, err error)
	Unlink(ctx context.Context, sess Session, placeID, amenityID string) error
}

type AuthService interface {
	Login(ctx context.Context, sess Session, email, password string) (string, *domain.User, error)
}

// StoredResponse is a response captured for idempotent replay.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers responses of create requests by client key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (*StoredResponse, bool, error)
	Remember(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
	Ping(ctx context.Context) error
}
