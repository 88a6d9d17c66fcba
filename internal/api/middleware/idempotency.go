package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/api/metrics"
	"github.com/hbnb/hbnb-api/internal/core/ports"
)

const (
	// HeaderIdempotencyKey is sent by clients that want create requests replayed.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderReplayed marks a response served from the idempotency store.
	HeaderReplayed = "Idempotent-Replayed"
)

// replayKey scopes the client key to the request method and path, so one key
// reused against another endpoint or parent is a distinct request.
func replayKey(c echo.Context) string {
	req := c.Request()
	return req.Method + " " + req.URL.Path + " " + req.Header.Get(HeaderIdempotencyKey)
}

// Idempotency replays the stored response of a POST to the same path that
// carried the same Idempotency-Key. Only 201 responses are stored. Store
// failures are logged and the request proceeds normally.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	skip := func(c echo.Context) bool {
		return c.Request().Method != http.MethodPost || c.Request().Header.Get(HeaderIdempotencyKey) == ""
	}

	record := echomiddleware.BodyDumpWithConfig(echomiddleware.BodyDumpConfig{
		Skipper: skip,
		Handler: func(c echo.Context, _, resBody []byte) {
			res := c.Response()
			if res.Status != http.StatusCreated {
				return
			}
			key := replayKey(c)
			stored := ports.StoredResponse{
				Status:      res.Status,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        resBody,
			}
			// The request context may already be done once the response is written.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := store.Remember(ctx, key, stored, ttl); err != nil {
				log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store response")
			}
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		recorded := record(next)
		return func(c echo.Context) error {
			if skip(c) {
				return next(c)
			}

			key := replayKey(c)
			prev, ok, err := store.Lookup(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
				return next(c)
			}
			if ok {
				metrics.IdempotentReplaysTotal.Inc()
				log.Info().Str("idempotency_key", key).Msg("idempotent replay")
				c.Response().Header().Set(HeaderReplayed, "true")
				return c.Blob(prev.Status, prev.ContentType, prev.Body)
			}
			return recorded(c)
		}
	}
}
