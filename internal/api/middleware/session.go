package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/api/metrics"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

// SessionKey is the echo context key holding the request's storage session.
const SessionKey = "storage_session"

// Session opens one storage session per request and closes it when the
// handler returns, whatever the outcome.
func Session(engine ports.Engine, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := engine.Begin(c.Request().Context())
			if err != nil {
				log.Error().Err(err).Str("backend", engine.Name()).Msg("failed to open storage session")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
			}
			defer func() {
				if err := sess.Close(); err != nil {
					log.Warn().Err(err).Str("backend", engine.Name()).Msg("failed to close storage session")
				}
			}()

			c.Set(SessionKey, &timedSession{Session: sess, backend: engine.Name()})
			return next(c)
		}
	}
}

// SessionFrom returns the session opened by the Session middleware.
func SessionFrom(c echo.Context) (ports.Session, bool) {
	sess, ok := c.Get(SessionKey).(ports.Session)
	return sess, ok
}

// timedSession records commit latency.
type timedSession struct {
	ports.Session
	backend string
}

func (s *timedSession) Save(ctx context.Context) error {
	start := time.Now()
	err := s.Session.Save(ctx)
	metrics.StorageCommitDuration.WithLabelValues(s.backend).Observe(time.Since(start).Seconds())
	return err
}
