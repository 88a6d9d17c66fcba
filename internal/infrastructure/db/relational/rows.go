package relational

import (
	"time"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

// record is implemented by every table row.
type record interface {
	TableName() string
	entity() domain.Entity
}

// BaseRow holds the columns shared by every table. It is exported so gorm
// flattens it into the embedding row.
type BaseRow struct {
	ID        string    `gorm:"primaryKey;size:60"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func baseOf(m *domain.Model) BaseRow {
	return BaseRow{ID: m.ID, CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC()}
}

func (b BaseRow) model() domain.Model {
	return domain.Model{ID: b.ID, CreatedAt: b.CreatedAt.UTC(), UpdatedAt: b.UpdatedAt.UTC()}
}

type stateRow struct {
	BaseRow
	Name string `gorm:"size:128;not null"`
}

func (stateRow) TableName() string { return "states" }

func (r stateRow) entity() domain.Entity {
	return &domain.State{Model: r.model(), Name: r.Name}
}

type cityRow struct {
	BaseRow
	StateID string `gorm:"size:60;not null;index"`
	Name    string `gorm:"size:128;not null"`
}

func (cityRow) TableName() string { return "cities" }

func (r cityRow) entity() domain.Entity {
	return &domain.City{Model: r.model(), StateID: r.StateID, Name: r.Name}
}

type amenityRow struct {
	BaseRow
	Name string `gorm:"size:128;not null"`
}

func (amenityRow) TableName() string { return "amenities" }

func (r amenityRow) entity() domain.Entity {
	return &domain.Amenity{Model: r.model(), Name: r.Name}
}

type userRow struct {
	BaseRow
	Email     string `gorm:"size:128;not null;uniqueIndex"`
	Password  string `gorm:"size:128;not null"`
	FirstName string `gorm:"size:128"`
	LastName  string `gorm:"size:128"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) entity() domain.Entity {
	return &domain.User{
		Model:        r.model(),
		Email:        r.Email,
		PasswordHash: r.Password,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
	}
}

type placeRow struct {
	BaseRow
	CityID          string  `gorm:"size:60;not null;index"`
	UserID          string  `gorm:"size:60;not null;index"`
	Name            string  `gorm:"size:128;not null"`
	Description     string  `gorm:"size:1024"`
	NumberRooms     int     `gorm:"not null;default:0"`
	NumberBathrooms int     `gorm:"not null;default:0"`
	MaxGuest        int     `gorm:"not null;default:0"`
	PriceByNight    int     `gorm:"not null;default:0"`
	Latitude        float64 `gorm:"default:0"`
	Longitude       float64 `gorm:"default:0"`
}

func (placeRow) TableName() string { return "places" }

func (r placeRow) entity() domain.Entity {
	return &domain.Place{
		Model:           r.model(),
		CityID:          r.CityID,
		UserID:          r.UserID,
		Name:            r.Name,
		Description:     r.Description,
		NumberRooms:     r.NumberRooms,
		NumberBathrooms: r.NumberBathrooms,
		MaxGuest:        r.MaxGuest,
		PriceByNight:    r.PriceByNight,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		AmenityIDs:      []string{},
	}
}

type reviewRow struct {
	BaseRow
	PlaceID string `gorm:"size:60;not null;index"`
	UserID  string `gorm:"size:60;not null;index"`
	Text    string `gorm:"size:1024;not null"`
}

func (reviewRow) TableName() string { return "reviews" }

func (r reviewRow) entity() domain.Entity {
	return &domain.Review{Model: r.model(), PlaceID: r.PlaceID, UserID: r.UserID, Text: r.Text}
}

// placeAmenityRow links a place to an amenity. Seq keeps the link order.
type placeAmenityRow struct {
	PlaceID   string `gorm:"primaryKey;size:60"`
	AmenityID string `gorm:"primaryKey;size:60;index"`
	Seq       int    `gorm:"not null;default:0"`
}

func (placeAmenityRow) TableName() string { return "place_amenity" }

func rowOf(e domain.Entity) (record, error) {
	switch v := e.(type) {
	case *domain.State:
		return &stateRow{BaseRow: baseOf(&v.Model), Name: v.Name}, nil
	case *domain.City:
		return &cityRow{BaseRow: baseOf(&v.Model), StateID: v.StateID, Name: v.Name}, nil
	case *domain.Amenity:
		return &amenityRow{BaseRow: baseOf(&v.Model), Name: v.Name}, nil
	case *domain.User:
		return &userRow{
			BaseRow:   baseOf(&v.Model),
			Email:     v.Email,
			Password:  v.PasswordHash,
			FirstName: v.FirstName,
			LastName:  v.LastName,
		}, nil
	case *domain.Place:
		return &placeRow{
			BaseRow:         baseOf(&v.Model),
			CityID:          v.CityID,
			UserID:          v.UserID,
			Name:            v.Name,
			Description:     v.Description,
			NumberRooms:     v.NumberRooms,
			NumberBathrooms: v.NumberBathrooms,
			MaxGuest:        v.MaxGuest,
			PriceByNight:    v.PriceByNight,
			Latitude:        v.Latitude,
			Longitude:       v.Longitude,
		}, nil
	case *domain.Review:
		return &reviewRow{BaseRow: baseOf(&v.Model), PlaceID: v.PlaceID, UserID: v.UserID, Text: v.Text}, nil
	}
	return nil, errUnknownKind(e.Kind())
}

// emptyRow returns a zero row used to address the table of kind.
func emptyRow(kind domain.Kind) (record, error) {
	switch kind {
	case domain.KindState:
		return &stateRow{}, nil
	case domain.KindCity:
		return &cityRow{}, nil
	case domain.KindAmenity:
		return &amenityRow{}, nil
	case domain.KindUser:
		return &userRow{}, nil
	case domain.KindPlace:
		return &placeRow{}, nil
	case domain.KindReview:
		return &reviewRow{}, nil
	}
	return nil, errUnknownKind(kind)
}

// columns lists the fields Where may filter on, per kind.
var columns = map[domain.Kind][]string{
	domain.KindState:   {"id", "name"},
	domain.KindCity:    {"id", "name", "state_id"},
	domain.KindAmenity: {"id", "name"},
	domain.KindUser:    {"id", "email"},
	domain.KindPlace:   {"id", "name", "city_id", "user_id"},
	domain.KindReview:  {"id", "place_id", "user_id"},
}
