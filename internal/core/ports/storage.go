package ports

import (
	"context"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

// Engine is a storage backend opened once at startup.
type Engine interface {
	// Name identifies the backend in logs and metrics ("file", "db", "mongo").
	Name() string
	// Begin opens a unit of work. Every session must be closed.
	Begin(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Session is a unit of work scoped to a single request. Writes staged with
// New and Delete become visible to other sessions only after Save.
type Session interface {
	// All returns every record of kind, or of every kind when kind is empty.
	All(ctx context.Context, kind domain.Kind) ([]domain.Entity, error)
	// Get returns domain.ErrNotFound when no record matches.
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Entity, error)
	// Where returns the records of kind whose field equals value.
	Where(ctx context.Context, kind domain.Kind, field, value string) ([]domain.Entity, error)
	// New stages an insert or a full update of e.
	New(ctx context.Context, e domain.Entity) error
	// Delete stages the removal of e; absent records are ignored.
	Delete(ctx context.Context, e domain.Entity) error
	// Save commits staged changes.
	Save(ctx context.Context) error
	Count(ctx context.Context, kind domain.Kind) (int64, error)
	// Close discards uncommitted changes and releases resources.
	Close() error
}
