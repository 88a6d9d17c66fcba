// Package relational stores records in SQL tables through gorm. MySQL and
// PostgreSQL are supported in production; SQLite serves local runs and tests.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db/staging"
)

const Name = "db"

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	// SlowThreshold is the query duration above which queries are logged as slow.
	SlowThreshold time.Duration
}

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

func errUnknownKind(kind domain.Kind) error {
	return fmt.Errorf("relational: unknown kind %q", kind)
}

// Open connects to the database and migrates the schema.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	dialector, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, cfg.SlowThreshold),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("relational: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("relational: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// A single connection avoids "database is locked" on concurrent writes.
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("relational: ping: %w", err)
	}

	err = db.WithContext(ctx).AutoMigrate(
		&stateRow{}, &cityRow{}, &amenityRow{}, &userRow{}, &placeRow{}, &reviewRow{}, &placeAmenityRow{},
	)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("relational: migrate: %w", err)
	}

	log.Debug().Str("driver", db.Dialector.Name()).Msg("relational storage ready")
	return &Store{db: db, log: log}, nil
}

func dial(cfg Config) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, errors.New("relational: empty dsn")
	}
	switch cfg.Driver {
	case DriverMySQL:
		mc, err := mysqldriver.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("relational: mysql dsn: %w", err)
		}
		mc.ParseTime = true
		connector, err := mysqldriver.NewConnector(mc)
		if err != nil {
			return nil, fmt.Errorf("relational: mysql: %w", err)
		}
		return mysql.New(mysql.Config{Conn: sql.OpenDB(connector)}), nil
	case DriverPostgres:
		connector, err := pq.NewConnector(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("relational: postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{Conn: sql.OpenDB(connector)}), nil
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("relational: unsupported driver %q", cfg.Driver)
}

func (s *Store) Name() string { return Name }

func (s *Store) Begin(context.Context) (ports.Session, error) {
	return &session{store: s, stage: staging.New()}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// find loads the rows of R matching conds.
func find[R any, P interface {
	*R
	record
}](db *gorm.DB, conds map[string]any) ([]domain.Entity, error) {
	var rows []R
	q := db
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Entity, 0, len(rows))
	for i := range rows {
		out = append(out, P(&rows[i]).entity())
	}
	return out, nil
}

func (s *Store) query(ctx context.Context, kind domain.Kind, conds map[string]any) ([]domain.Entity, error) {
	db := s.db.WithContext(ctx)
	var (
		out []domain.Entity
		err error
	)
	switch kind {
	case domain.KindState:
		out, err = find[stateRow](db, conds)
	case domain.KindCity:
		out, err = find[cityRow](db, conds)
	case domain.KindAmenity:
		out, err = find[amenityRow](db, conds)
	case domain.KindUser:
		out, err = find[userRow](db, conds)
	case domain.KindReview:
		out, err = find[reviewRow](db, conds)
	case domain.KindPlace:
		out, err = find[placeRow](db, conds)
		if err == nil {
			err = s.attachAmenities(db, out)
		}
	default:
		return nil, errUnknownKind(kind)
	}
	if err != nil {
		return nil, fmt.Errorf("relational: query %s: %w", kind, err)
	}
	return out, nil
}

func (s *Store) attachAmenities(db *gorm.DB, places []domain.Entity) error {
	if len(places) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Place, len(places))
	ids := make([]string, 0, len(places))
	for _, e := range places {
		p := e.(*domain.Place)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	var links []placeAmenityRow
	if err := db.Where("place_id IN ?", ids).Order("seq").Find(&links).Error; err != nil {
		return err
	}
	for _, l := range links {
		if p, ok := byID[l.PlaceID]; ok {
			p.AmenityIDs = append(p.AmenityIDs, l.AmenityID)
		}
	}
	return nil
}

func (s *Store) commit(ctx context.Context, changes []staging.Change) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			var err error
			if ch.Deleted {
				err = remove(tx, ch.Entity)
			} else {
				err = upsert(tx, ch.Entity, ch.Loaded)
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) && ch.Entity.Kind() == domain.KindUser {
				return domain.ErrEmailTaken
			}
			if err != nil {
				return fmt.Errorf("relational: %s %s: %w", ch.Entity.Kind(), ch.Entity.Base().ID, err)
			}
		}
		return nil
	})
}

// upsert inserts e when its row is absent and updates it by id otherwise, so a
// unique violation on any other column surfaces as gorm.ErrDuplicatedKey.
// A loaded record whose row is gone was deleted by another session and is
// not recreated.
func upsert(tx *gorm.DB, e domain.Entity, loaded bool) error {
	row, err := rowOf(e)
	if err != nil {
		return err
	}
	var n int64
	if err := tx.Model(row).Where("id = ?", e.Base().ID).Count(&n).Error; err != nil {
		return err
	}
	switch {
	case n == 0 && loaded:
		return nil
	case n == 0:
		err = tx.Create(row).Error
	default:
		err = tx.Model(row).Select("*").Omit("id").Updates(row).Error
	}
	if err != nil {
		return err
	}

	p, ok := e.(*domain.Place)
	if !ok {
		return nil
	}
	if err := tx.Where("place_id = ?", p.ID).Delete(&placeAmenityRow{}).Error; err != nil {
		return err
	}
	if len(p.AmenityIDs) == 0 {
		return nil
	}
	links := make([]placeAmenityRow, 0, len(p.AmenityIDs))
	for i, id := range p.AmenityIDs {
		links = append(links, placeAmenityRow{PlaceID: p.ID, AmenityID: id, Seq: i})
	}
	return tx.Create(&links).Error
}

func remove(tx *gorm.DB, e domain.Entity) error {
	switch e.Kind() {
	case domain.KindPlace:
		if err := tx.Where("place_id = ?", e.Base().ID).Delete(&placeAmenityRow{}).Error; err != nil {
			return err
		}
	case domain.KindAmenity:
		if err := tx.Where("amenity_id = ?", e.Base().ID).Delete(&placeAmenityRow{}).Error; err != nil {
			return err
		}
	}
	row, err := emptyRow(e.Kind())
	if err != nil {
		return err
	}
	return tx.Where("id = ?", e.Base().ID).Delete(row).Error
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
	committed, err := x.store.query(ctx, kind, nil)
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
	list, err := x.store.query(ctx, kind, map[string]any{"id": id})
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
	if !slices.Contains(columns[kind], field) {
		return nil, fmt.Errorf("relational: cannot filter %s by %q", kind, field)
	}
	committed, err := x.store.query(ctx, kind, map[string]any{field: value})
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
	row, err := emptyRow(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := x.store.db.WithContext(ctx).Model(row).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("relational: count %s: %w", kind, err)
	}
	return n, nil
}

func (x *session) Close() error {
	x.stage.Reset()
	return nil
}
