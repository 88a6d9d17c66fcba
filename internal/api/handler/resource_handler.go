package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// ResourceHandler serves the uniform CRUD routes of one record type.
type ResourceHandler struct {
	resource domain.Resource
	service  ports.ResourceService
}

func NewResourceHandler(kind domain.Kind, service ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{resource: domain.ResourceOf(kind), service: service}
}

func (h *ResourceHandler) Resource() domain.Resource { return h.resource }

// List returns every record of the type.
//
// @Summary      List records
// @Tags         resources
// @Produce      json
// @Success      200  {array}   map[string]interface{}
// @Router       /{resource} [get]
func (h *ResourceHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.Request().Context(), sess, h.resource.Kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderAll(list))
}

// ListByParent returns the records owned by the parent in the path.
//
// @Summary      List records of a parent
// @Tags         resources
// @Produce      json
// @Param        parent_id  path      string  true  "Parent id"
// @Success      200        {array}   map[string]interface{}
// @Failure      404        {object}  map[string]string
// @Router       /{parent}/{parent_id}/{resource} [get]
func (h *ResourceHandler) ListByParent(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListByParent(c.Request().Context(), sess, h.resource.Kind, c.Param("parent_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderAll(list))
}

// Get returns one record.
//
// @Summary      Get a record
// @Tags         resources
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /{resource}/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	e, err := h.service.Get(c.Request().Context(), sess, h.resource.Kind, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, render(e))
}

// Create persists a new record. Nested types take their parent from the path.
//
// @Summary      Create a record
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string  false  "Replay key"
// @Success      201              {object}  map[string]interface{}
// @Failure      400              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /{resource} [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return domain.ErrNotJSON
	}
	e, err := h.service.Create(c.Request().Context(), sess, h.resource.Kind, c.Param("parent_id"), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, render(e))
}

// Update applies the body to the record, ignoring protected fields.
//
// @Summary      Update a record
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /{resource}/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return domain.ErrNotJSON
	}
	e, err := h.service.Update(c.Request().Context(), sess, h.resource.Kind, c.Param("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, render(e))
}

// Delete removes the record and its dependents.
//
// @Summary      Delete a record
// @Tags         resources
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /{resource}/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), sess, h.resource.Kind, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{})
}
