package domain

// State owns many Cities.
type State struct {
	Model
	Name string
}

func NewState() *State { return &State{Model: NewModel()} }

func (*State) Kind() Kind { return KindState }

func (s *State) ToMap() map[string]any {
	m := s.fields(KindState)
	m["name"] = s.Name
	return m
}

func (s *State) Apply(attrs map[string]any) error {
	return setString(attrs, "name", &s.Name)
}

// City belongs to a State and owns many Places.
type City struct {
	Model
	StateID string
	Name    string
}

func NewCity() *City { return &City{Model: NewModel()} }

func (*City) Kind() Kind { return KindCity }

func (c *City) ToMap() map[string]any {
	m := c.fields(KindCity)
	m["state_id"] = c.StateID
	m["name"] = c.Name
	return m
}

func (c *City) Apply(attrs map[string]any) error {
	return applyAll(
		func() error { return setString(attrs, "state_id", &c.StateID) },
		func() error { return setString(attrs, "name", &c.Name) },
	)
}

// Amenity is linked to Places many-to-many.
type Amenity struct {
	Model
	Name string
}

func NewAmenity() *Amenity { return &Amenity{Model: NewModel()} }

func (*Amenity) Kind() Kind { return KindAmenity }

func (a *Amenity) ToMap() map[string]any {
	m := a.fields(KindAmenity)
	m["name"] = a.Name
	return m
}

func (a *Amenity) Apply(attrs map[string]any) error {
	return setString(attrs, "name", &a.Name)
}

// Review is written by a User about a Place.
type Review struct {
	Model
	PlaceID string
	UserID  string
	Text    string
}

func NewReview() *Review { return &Review{Model: NewModel()} }

func (*Review) Kind() Kind { return KindReview }

func (r *Review) ToMap() map[string]any {
	m := r.fields(KindReview)
	m["place_id"] = r.PlaceID
	m["user_id"] = r.UserID
	m["text"] = r.Text
	return m
}

func (r *Review) Apply(attrs map[string]any) error {
	return applyAll(
		func() error { return setString(attrs, "place_id", &r.PlaceID) },
		func() error { return setString(attrs, "user_id", &r.UserID) },
		func() error { return setString(attrs, "text", &r.Text) },
	)
}
