package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/api/middleware"
	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// maxBodyBytes bounds request bodies read by handlers.
const maxBodyBytes = 1 << 20

// ctxSession returns the storage session opened for this request. Its absence
// means the route was registered without the Session middleware.
func ctxSession(c echo.Context) (ports.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "storage session not available")
	}
	return sess, nil
}

// readBody returns the raw request body.
func readBody(c echo.Context) ([]byte, error) {
	body := c.Request().Body
	if body == nil {
		return nil, nil
	}
	return io.ReadAll(io.LimitReader(body, maxBodyBytes))
}

func render(e domain.Entity) map[string]any {
	return e.ToMap()
}

func renderAll(list []domain.Entity) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		out = append(out, e.ToMap())
	}
	return out
}
