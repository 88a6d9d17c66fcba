package mongo

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

func TestEncodeDecode_Place(t *testing.T) {
	p := domain.NewPlace()
	p.Name = "Loft"
	p.LinkAmenity("a1")

	doc := encode(p)
	if doc["_id"] != p.ID {
		t.Fatalf("expected _id to be the record id, got %v", doc["_id"])
	}

	// Simulate what the driver hands back: arrays as bson.A and ints as int32.
	doc["amenities"] = bson.A{"a1"}
	doc["number_rooms"] = int32(4)

	e, err := decode(domain.KindPlace, doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := e.(*domain.Place)
	if got.ID != p.ID || got.Name != "Loft" || got.NumberRooms != 4 {
		t.Fatalf("unexpected place: %+v", got)
	}
	if len(got.AmenityIDs) != 1 || got.AmenityIDs[0] != "a1" {
		t.Fatalf("amenities not restored: %v", got.AmenityIDs)
	}
}

func TestDecode_FallsBackToObjectID(t *testing.T) {
	e, err := decode(domain.KindState, bson.M{"_id": "s1", "name": "Nevada"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Base().ID != "s1" {
		t.Fatalf("expected id from _id, got %q", e.Base().ID)
	}
}

func TestNormalize_Nested(t *testing.T) {
	v := normalize(bson.D{{Key: "list", Value: bson.A{bson.M{"x": int64(1)}}}})
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", v)
	}
	list, ok := m["list"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected plain slice, got %T", m["list"])
	}
	if _, ok := list[0].(map[string]any); !ok {
		t.Fatalf("expected nested plain map, got %T", list[0])
	}
}

func TestConnect_EmptyDatabase(t *testing.T) {
	if _, _, err := Connect(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatalf("expected error for empty database name")
	}
}
