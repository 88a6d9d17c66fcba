package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/core/ports"
)

type PlaceAmenityHandler struct {
	service ports.PlaceAmenityService
}

func NewPlaceAmenityHandler(service ports.PlaceAmenityService) *PlaceAmenityHandler {
	return &PlaceAmenityHandler{service: service}
}

// List returns the amenities of a place.
//
// @Summary      List place amenities
// @Tags         places
// @Produce      json
// @Param        place_id  path      string  true  "Place id"
// @Success      200       {array}   map[string]interface{}
// @Failure      404       {object}  map[string]string
// @Router       /places/{place_id}/amenities [get]
func (h *PlaceAmenityHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.Request().Context(), sess, c.Param("place_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderAll(list))
}

// Link attaches an amenity to a place. An existing link answers 200.
//
// @Summary      Link an amenity
// @Tags         places
// @Produce      json
// @Param        place_id    path      string  true  "Place id"
// @Param        amenity_id  path      string  true  "Amenity id"
// @Success      200         {object}  map[string]interface{}
// @Success      201         {object}  map[string]interface{}
// @Failure      404         {object}  map[string]string
// @Router       /places/{place_id}/amenities/{amenity_id} [post]
func (h *PlaceAmenityHandler) Link(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	amenity, created, err := h.service.Link(c.Request().Context(), sess, c.Param("place_id"), c.Param("amenity_id"))
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, render(amenity))
}

// Unlink detaches an amenity from a place.
//
// @Summary      Unlink an amenity
// @Tags         places
// @Produce      json
// @Param        place_id    path      string  true  "Place id"
// @Param        amenity_id  path      string  true  "Amenity id"
// @Success      200         {object}  map[string]interface{}
// @Failure      404         {object}  map[string]string
// @Router       /places/{place_id}/amenities/{amenity_id} [delete]
func (h *PlaceAmenityHandler) Unlink(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.Unlink(c.Request().Context(), sess, c.Param("place_id"), c.Param("amenity_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{})
}
