package relational

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

func init() {
	domain.PasswordCost = bcrypt.MinCost
}

func openSQLite(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "hbnb.db")
	s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	sess, _ := s.Begin(ctx)
	defer sess.Close()

	user := domain.NewUser()
	user.Email = "a@b.c"
	_ = user.SetPassword("secret")
	place := domain.NewPlace()
	place.CityID, place.UserID, place.Name = "c1", user.ID, "Loft"
	place.NumberRooms, place.Latitude = 3, 37.77
	wifi, pool := domain.NewAmenity(), domain.NewAmenity()
	place.LinkAmenity(wifi.ID)
	place.LinkAmenity(pool.ID)

	for _, e := range []domain.Entity{user, wifi, pool, place} {
		if err := sess.New(ctx, e); err != nil {
			t.Fatalf("new: %v", err)
		}
	}
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, _ := s.Begin(ctx)
	defer other.Close()

	got, err := other.Get(ctx, domain.KindPlace, place.ID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	p := got.(*domain.Place)
	if p.Name != "Loft" || p.NumberRooms != 3 || p.Latitude != 37.77 {
		t.Fatalf("unexpected place: %+v", p)
	}
	if len(p.AmenityIDs) != 2 || p.AmenityIDs[0] != wifi.ID || p.AmenityIDs[1] != pool.ID {
		t.Fatalf("amenity links not restored in order: %v", p.AmenityIDs)
	}
	if !p.CreatedAt.Equal(place.CreatedAt) {
		t.Fatalf("created_at changed: %v vs %v", p.CreatedAt, place.CreatedAt)
	}

	u, err := other.Get(ctx, domain.KindUser, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !u.(*domain.User).CheckPassword("secret") {
		t.Fatalf("password hash not persisted")
	}
}

func TestStore_UpdateAndUnlink(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	sess, _ := s.Begin(ctx)
	defer sess.Close()

	place := domain.NewPlace()
	place.Name = "before"
	place.LinkAmenity("a1")
	place.LinkAmenity("a2")
	_ = sess.New(ctx, place)
	_ = sess.Save(ctx)

	place.Name = "after"
	place.UnlinkAmenity("a1")
	place.Touch()
	_ = sess.New(ctx, place)
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save update: %v", err)
	}

	got, _ := sess.Get(ctx, domain.KindPlace, place.ID)
	p := got.(*domain.Place)
	if p.Name != "after" || len(p.AmenityIDs) != 1 || p.AmenityIDs[0] != "a2" {
		t.Fatalf("update not persisted: %+v", p)
	}
	if n, _ := sess.Count(ctx, domain.KindPlace); n != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", n)
	}
}

func TestStore_StagedUntilSave(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	writer, _ := s.Begin(ctx)
	reader, _ := s.Begin(ctx)
	defer reader.Close()

	state := domain.NewState()
	_ = writer.New(ctx, state)
	if n, _ := writer.Count(ctx, domain.KindState); n != 1 {
		t.Fatalf("writer should count its staged state, got %d", n)
	}
	if _, err := reader.Get(ctx, domain.KindState, state.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("uncommitted state visible: %v", err)
	}
	_ = writer.Close()
	if n, _ := reader.Count(ctx, domain.KindState); n != 0 {
		t.Fatalf("closed session leaked writes, got %d", n)
	}
}

func TestStore_WhereAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	sess, _ := s.Begin(ctx)
	defer sess.Close()

	a, b := domain.NewCity(), domain.NewCity()
	a.StateID, b.StateID = "s1", "s2"
	amenity := domain.NewAmenity()
	place := domain.NewPlace()
	place.LinkAmenity(amenity.ID)
	for _, e := range []domain.Entity{a, b, amenity, place} {
		_ = sess.New(ctx, e)
	}
	_ = sess.Save(ctx)

	cities, err := sess.Where(ctx, domain.KindCity, "state_id", "s1")
	if err != nil {
		t.Fatalf("where: %v", err)
	}
	if len(cities) != 1 || cities[0].Base().ID != a.ID {
		t.Fatalf("unexpected cities: %v", cities)
	}
	if _, err := sess.Where(ctx, domain.KindCity, "name; DROP TABLE", "x"); err == nil {
		t.Fatalf("expected error for unknown column")
	}

	_ = sess.Delete(ctx, amenity)
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save delete: %v", err)
	}
	got, _ := sess.Get(ctx, domain.KindPlace, place.ID)
	if len(got.(*domain.Place).AmenityIDs) != 0 {
		t.Fatalf("deleting an amenity should drop its links")
	}

	all, _ := sess.All(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 records of every kind, got %d", len(all))
	}
}

func TestStore_DuplicateEmailKeepsExistingUser(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	sess, _ := s.Begin(ctx)
	defer sess.Close()

	first := domain.NewUser()
	first.Email = "dup@b.c"
	_ = first.SetPassword("first")
	_ = sess.New(ctx, first)
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save first: %v", err)
	}

	other, _ := s.Begin(ctx)
	defer other.Close()
	second := domain.NewUser()
	second.Email = "dup@b.c"
	_ = second.SetPassword("second")
	_ = other.New(ctx, second)
	if err := other.Save(ctx); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	reader, _ := s.Begin(ctx)
	defer reader.Close()
	got, err := reader.Get(ctx, domain.KindUser, first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if !got.(*domain.User).CheckPassword("first") {
		t.Fatalf("existing user was overwritten by the duplicate insert")
	}
	if _, err := reader.Get(ctx, domain.KindUser, second.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("duplicate user must not be stored: %v", err)
	}
	if n, _ := reader.Count(ctx, domain.KindUser); n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}

func TestStore_UpdateAfterConcurrentDelete(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	setup, _ := s.Begin(ctx)
	state := domain.NewState()
	state.Name = "Nevada"
	_ = setup.New(ctx, state)
	_ = setup.Save(ctx)
	_ = setup.Close()

	editor, _ := s.Begin(ctx)
	defer editor.Close()
	got, err := editor.Get(ctx, domain.KindState, state.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	deleter, _ := s.Begin(ctx)
	_ = deleter.Delete(ctx, state)
	if err := deleter.Save(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_ = deleter.Close()

	stale := got.(*domain.State)
	stale.Name = "Renamed"
	_ = editor.New(ctx, stale)
	if err := editor.Save(ctx); err != nil {
		t.Fatalf("save stale update: %v", err)
	}

	reader, _ := s.Begin(ctx)
	defer reader.Close()
	if _, err := reader.Get(ctx, domain.KindState, state.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted state was recreated: %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"}, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error")
	}
}
