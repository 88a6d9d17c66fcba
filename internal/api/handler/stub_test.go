package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/api/middleware"
	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// nopSession satisfies ports.Session for handlers whose services are stubbed.
type nopSession struct {
	users map[string]*domain.User
}

func (s *nopSession) All(context.Context, domain.Kind) ([]domain.Entity, error) { return nil, nil }
func (s *nopSession) Get(_ context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	if u, ok := s.users[id]; ok && kind == domain.KindUser {
		return u, nil
	}
	return nil, domain.ErrNotFound
}
func (s *nopSession) Where(context.Context, domain.Kind, string, string) ([]domain.Entity, error) {
	return nil, nil
}
func (s *nopSession) New(context.Context, domain.Entity) error          { return nil }
func (s *nopSession) Delete(context.Context, domain.Entity) error       { return nil }
func (s *nopSession) Save(context.Context) error                        { return nil }
func (s *nopSession) Count(context.Context, domain.Kind) (int64, error) { return 0, nil }
func (s *nopSession) Close() error                                      { return nil }

// newContext builds an echo context carrying a session, as the Session
// middleware would.
func newContext(method, target string, body io.Reader, sess ports.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.SessionKey, sess)
	}
	return c, rec
}

type stubResourceService struct {
	listFn         func(kind domain.Kind) ([]domain.Entity, error)
	listByParentFn func(kind domain.Kind, parentID string) ([]domain.Entity, error)
	getFn          func(kind domain.Kind, id string) (domain.Entity, error)
	createFn       func(kind domain.Kind, parentID string, body []byte) (domain.Entity, error)
	updateFn       func(kind domain.Kind, id string, body []byte) (domain.Entity, error)
	deleteFn       func(kind domain.Kind, id string) error
	statsFn        func() (map[string]int64, error)
}

func (s *stubResourceService) List(_ context.Context, _ ports.Session, kind domain.Kind) ([]domain.Entity, error) {
	return s.listFn(kind)
}

func (s *stubResourceService) ListByParent(_ context.Context, _ ports.Session, kind domain.Kind, parentID string) ([]domain.Entity, error) {
	return s.listByParentFn(kind, parentID)
}

func (s *stubResourceService) Get(_ context.Context, _ ports.Session, kind domain.Kind, id string) (domain.Entity, error) {
	return s.getFn(kind, id)
}

func (s *stubResourceService) Create(_ context.Context, _ ports.Session, kind domain.Kind, parentID string, body []byte) (domain.Entity, error) {
	return s.createFn(kind, parentID, body)
}

func (s *stubResourceService) Update(_ context.Context, _ ports.Session, kind domain.Kind, id string, body []byte) (domain.Entity, error) {
	return s.updateFn(kind, id, body)
}

func (s *stubResourceService) Delete(_ context.Context, _ ports.Session, kind domain.Kind, id string) error {
	return s.deleteFn(kind, id)
}

func (s *stubResourceService) Stats(context.Context, ports.Session) (map[string]int64, error) {
	return s.statsFn()
}

type stubSearchService struct {
	searchFn func(criteria ports.SearchCriteria) ([]*domain.Place, error)
}

func (s *stubSearchService) Search(_ context.Context, _ ports.Session, criteria ports.SearchCriteria) ([]*domain.Place, error) {
	return s.searchFn(criteria)
}

type stubPlaceAmenityService struct {
	listFn   func(placeID string) ([]domain.Entity, error)
	linkFn   func(placeID, amenityID string) (*domain.Amenity, bool, error)
	unlinkFn func(placeID, amenityID string) error
}

func (s *stubPlaceAmenityService) List(_ context.Context, _ ports.Session, placeID string) ([]domain.Entity, error) {
	return s.listFn(placeID)
}

func (s *stubPlaceAmenityService) Link(_ context.Context, _ ports.Session, placeID, amenityID string) (*domain.Amenity, bool, error) {
	return s.linkFn(placeID, amenityID)
}

func (s *stubPlaceAmenityService) Unlink(_ context.Context, _ ports.Session, placeID, amenityID string) error {
	return s.unlinkFn(placeID, amenityID)
}

type stubAuthService struct {
	loginFn func(email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(_ context.Context, _ ports.Session, email, password string) (string, *domain.User, error) {
	return s.loginFn(email, password)
}
