package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// IndexHandler serves /status and /stats.
type IndexHandler struct {
	service ports.ResourceService
}

func NewIndexHandler(service ports.ResourceService) *IndexHandler {
	return &IndexHandler{service: service}
}

// Status reports that the API is up.
//
// @Summary      API status
// @Tags         index
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /status [get]
func (h *IndexHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

// Stats counts the records of every type.
//
// @Summary      Record counts
// @Tags         index
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /stats [get]
func (h *IndexHandler) Stats(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
