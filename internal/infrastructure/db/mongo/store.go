package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db/staging"
)

const Name = "mongo"

// Store keeps one collection per record type, named after its plural.
// Documents use the record id as _id.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

// Open connects and ensures the unique email index on users.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	client, db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s := &Store{client: client, db: db, log: log}
	log.Debug().Str("database", cfg.Database).Msg("document storage ready")
	return s, nil
}

func (s *Store) Name() string { return Name }

func (s *Store) collection(kind domain.Kind) *mongo.Collection {
	return s.db.Collection(domain.ResourceOf(kind).Plural)
}

func (s *Store) Begin(context.Context) (ports.Session, error) {
	return &session{store: s, stage: staging.New()}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, kind domain.Kind, filter bson.M) ([]domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.collection(kind).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var out []domain.Entity
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", kind, err)
		}
		e, err := decode(kind, doc)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("skipping malformed document")
			continue
		}
		out = append(out, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", kind, err)
	}
	return out, nil
}

func (s *Store) commit(ctx context.Context, changes []staging.Change) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, ch := range changes {
		col := s.collection(ch.Entity.Kind())
		id := ch.Entity.Base().ID
		if ch.Deleted {
			if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
				return fmt.Errorf("mongo delete %s %s: %w", ch.Entity.Kind(), id, err)
			}
			continue
		}
		// A loaded record that is gone was deleted by another session.
		_, err := col.ReplaceOne(ctx, bson.M{"_id": id}, encode(ch.Entity), options.Replace().SetUpsert(!ch.Loaded))
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("mongo upsert %s %s: %w", ch.Entity.Kind(), id, err)
		}
	}
	return nil
}

func encode(e domain.Entity) bson.M {
	doc := bson.M(domain.Snapshot(e))
	doc["_id"] = e.Base().ID
	return doc
}

func decode(kind domain.Kind, doc bson.M) (domain.Entity, error) {
	attrs := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		attrs[k] = normalize(v)
	}
	if _, ok := attrs["id"]; !ok {
		if id, ok := doc["_id"].(string); ok {
			attrs["id"] = id
		}
	}
	return domain.Decode(kind, attrs)
}

// normalize turns driver specific containers into plain Go values.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalize(t[i])
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	}
	return v
}

type session struct {
	store *Store
	stage *staging.Stage
}

func (x *session) All(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	if kind == "" {
		var out []domain.Entity
		for _, k := range domain.Kinds {
			list, err := x.All(ctx, k)
			if err != nil {
				return nil, err
			}
			out = append(out, list...)
		}
		return out, nil
	}
	committed, err := x.store.find(ctx, kind, bson.M{})
	if err != nil {
		return nil, err
	}
	return x.stage.Merge(committed, kind, nil), nil
}

func (x *session) Get(ctx context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	if e, found := x.stage.Lookup(kind, id); found {
		if e == nil {
			return nil, domain.ErrNotFound
		}
		return e, nil
	}
	list, err := x.store.find(ctx, kind, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	x.stage.Loaded(list[0])
	return list[0], nil
}

func (x *session) Where(ctx context.Context, kind domain.Kind, field, value string) ([]domain.Entity, error) {
	committed, err := x.store.find(ctx, kind, bson.M{field: value})
	if err != nil {
		return nil, err
	}
	return x.stage.Merge(committed, kind, staging.FieldEquals(field, value)), nil
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

func (x *session) Save(ctx context.Context) error {
	if x.stage.Empty() {
		return nil
	}
	if err := x.store.commit(ctx, x.stage.Changes()); err != nil {
		return err
	}
	x.stage.Reset()
	return nil
}

func (x *session) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	if kind == "" || !x.stage.Empty() {
		all, err := x.All(ctx, kind)
		if err != nil {
			return 0, err
		}
		return int64(len(all)), nil
	}
	n, err := x.store.collection(kind).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count %s: %w", kind, err)
	}
	return n, nil
}

func (x *session) Close() error {
	x.stage.Reset()
	return nil
}
