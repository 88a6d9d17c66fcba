package domain

import "slices"

// Place belongs to a City and a User, and is linked to Amenities.
type Place struct {
	Model
	CityID          string
	UserID          string
	Name            string
	Description     string
	NumberRooms     int
	NumberBathrooms int
	MaxGuest        int
	PriceByNight    int
	Latitude        float64
	Longitude       float64
	// AmenityIDs is managed through LinkAmenity/UnlinkAmenity, never through Apply.
	AmenityIDs []string
}

func NewPlace() *Place { return &Place{Model: NewModel(), AmenityIDs: []string{}} }

func (*Place) Kind() Kind { return KindPlace }

func (p *Place) ToMap() map[string]any {
	m := p.fields(KindPlace)
	m["city_id"] = p.CityID
	m["user_id"] = p.UserID
	m["name"] = p.Name
	m["description"] = p.Description
	m["number_rooms"] = p.NumberRooms
	m["number_bathrooms"] = p.NumberBathrooms
	m["max_guest"] = p.MaxGuest
	m["price_by_night"] = p.PriceByNight
	m["latitude"] = p.Latitude
	m["longitude"] = p.Longitude
	ids := make([]string, len(p.AmenityIDs))
	copy(ids, p.AmenityIDs)
	m["amenities"] = ids
	return m
}

func (p *Place) Apply(attrs map[string]any) error {
	return applyAll(
		func() error { return setString(attrs, "city_id", &p.CityID) },
		func() error { return setString(attrs, "user_id", &p.UserID) },
		func() error { return setString(attrs, "name", &p.Name) },
		func() error { return setString(attrs, "description", &p.Description) },
		func() error { return setInt(attrs, "number_rooms", &p.NumberRooms) },
		func() error { return setInt(attrs, "number_bathrooms", &p.NumberBathrooms) },
		func() error { return setInt(attrs, "max_guest", &p.MaxGuest) },
		func() error { return setInt(attrs, "price_by_night", &p.PriceByNight) },
		func() error { return setFloat(attrs, "latitude", &p.Latitude) },
		func() error { return setFloat(attrs, "longitude", &p.Longitude) },
	)
}

func (p *Place) HasAmenity(id string) bool {
	return slices.Contains(p.AmenityIDs, id)
}

// LinkAmenity reports false when the amenity was already linked.
func (p *Place) LinkAmenity(id string) bool {
	if p.HasAmenity(id) {
		return false
	}
	p.AmenityIDs = append(p.AmenityIDs, id)
	return true
}

// UnlinkAmenity reports false when the amenity was not linked.
func (p *Place) UnlinkAmenity(id string) bool {
	i := slices.Index(p.AmenityIDs, id)
	if i < 0 {
		return false
	}
	p.AmenityIDs = slices.Delete(p.AmenityIDs, i, i+1)
	return true
}
