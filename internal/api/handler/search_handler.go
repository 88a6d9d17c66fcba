package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

type SearchHandler struct {
	service ports.SearchService
}

func NewSearchHandler(service ports.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchRequest ids are not validated: an empty or unknown id matches nothing.
type searchRequest struct {
	States    []string `json:"states"`
	Cities    []string `json:"cities"`
	Amenities []string `json:"amenities"`
}

// Search filters places by states, cities and amenities.
//
// @Summary      Search places
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        body  body      searchRequest  true  "Search criteria"
// @Success      200   {array}   map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /places_search [post]
func (h *SearchHandler) Search(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	body, err := readBody(c)
	if err != nil {
		return domain.ErrNotJSON
	}
	if _, err := domain.ParseAttrs(body); err != nil {
		return err
	}
	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return domain.Invalid(te.Field)
		}
		return domain.ErrNotJSON
	}
	criteria := ports.SearchCriteria{States: req.States, Cities: req.Cities, Amenities: req.Amenities}
	places, err := h.service.Search(c.Request().Context(), sess, criteria)
	if err != nil {
		return err
	}

	out := make([]map[string]any, 0, len(places))
	for _, p := range places {
		m := p.ToMap()
		if !criteria.Empty() {
			delete(m, "amenities")
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, out)
}
