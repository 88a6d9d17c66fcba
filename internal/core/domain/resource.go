package domain

import "slices"

// Resource describes how a record type is exposed over HTTP.
type Resource struct {
	Kind Kind
	// Plural is the route segment and the /stats key.
	Plural string
	// Parent is set for types created under their owner, e.g. /states/{id}/cities.
	Parent    Kind
	ParentKey string
	// Required fields, checked in order on create.
	Required []string
	// Protected fields are ignored on update.
	Protected []string
}

var baseProtected = []string{"id", "created_at", "updated_at", "__class__"}

var resources = map[Kind]Resource{
	KindAmenity: {
		Kind:      KindAmenity,
		Plural:    "amenities",
		Required:  []string{"name"},
		Protected: baseProtected,
	},
	KindCity: {
		Kind:      KindCity,
		Plural:    "cities",
		Parent:    KindState,
		ParentKey: "state_id",
		Required:  []string{"name"},
		Protected: append(slices.Clone(baseProtected), "state_id"),
	},
	KindPlace: {
		Kind:      KindPlace,
		Plural:    "places",
		Parent:    KindCity,
		ParentKey: "city_id",
		Required:  []string{"user_id", "name"},
		Protected: append(slices.Clone(baseProtected), "user_id", "city_id", "amenities"),
	},
	KindReview: {
		Kind:      KindReview,
		Plural:    "reviews",
		Parent:    KindPlace,
		ParentKey: "place_id",
		Required:  []string{"user_id", "text"},
		Protected: append(slices.Clone(baseProtected), "user_id", "place_id"),
	},
	KindState: {
		Kind:      KindState,
		Plural:    "states",
		Required:  []string{"name"},
		Protected: baseProtected,
	},
	KindUser: {
		Kind:      KindUser,
		Plural:    "users",
		Required:  []string{"email", "password"},
		Protected: append(slices.Clone(baseProtected), "email"),
	},
}

// ResourceOf returns the descriptor of kind. It panics on unknown kinds.
func ResourceOf(kind Kind) Resource {
	r, ok := resources[kind]
	if !ok {
		panic("domain: unknown kind " + string(kind))
	}
	return r
}

func (r Resource) Nested() bool { return r.Parent != "" }

func (r Resource) IsProtected(field string) bool {
	return slices.Contains(r.Protected, field)
}

// Writable drops protected keys from an update body.
func (r Resource) Writable(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if !r.IsProtected(k) {
			out[k] = v
		}
	}
	return out
}
