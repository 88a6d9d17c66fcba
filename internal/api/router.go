package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hbnb/hbnb-api/docs"
	"github.com/hbnb/hbnb-api/internal/api/handler"
	"github.com/hbnb/hbnb-api/internal/api/middleware"
	"github.com/hbnb/hbnb-api/internal/core/domain"
	"github.com/hbnb/hbnb-api/internal/core/ports"
	"github.com/hbnb/hbnb-api/internal/core/service"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Storage ports.Engine
	// Idempotency is nil when replay of create requests is disabled.
	Idempotency    ports.IdempotencyStore
	IdempotencyTTL time.Duration
	// JWTSecret enables the /auth routes when set.
	JWTSecret   string
	CORSOrigins []string
	Logger      zerolog.Logger
	// Registerer and Gatherer default to the global prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	log := deps.Logger
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "hbnb",
		Registerer: deps.Registerer,
	}))

	// --- Health checks, metrics and docs ---
	healthHandler := handler.NewHealthHandler()
	checks := map[string]handler.Pinger{"storage": deps.Storage}
	if deps.Idempotency != nil {
		checks["redis"] = deps.Idempotency
	}
	healthDepsHandler := handler.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Services ---
	resources := service.NewResourceService(log)
	search := service.NewSearchService(log)
	links := service.NewPlaceAmenityService(log)

	// --- API v1 ---
	v1 := e.Group("/api/v1")
	v1.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderIdempotencyKey},
	}))
	v1.Use(middleware.Session(deps.Storage, log))
	if deps.Idempotency != nil {
		ttl := deps.IdempotencyTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		v1.Use(middleware.Idempotency(deps.Idempotency, ttl, log))
	}

	indexHandler := handler.NewIndexHandler(resources)
	v1.GET("/status", indexHandler.Status)
	v1.GET("/stats", indexHandler.Stats)

	for _, kind := range domain.Kinds {
		registerResource(v1, handler.NewResourceHandler(kind, resources))
	}

	searchHandler := handler.NewSearchHandler(search)
	v1.POST("/places_search", searchHandler.Search)

	placeAmenityHandler := handler.NewPlaceAmenityHandler(links)
	v1.GET("/places/:place_id/amenities", placeAmenityHandler.List)
	v1.POST("/places/:place_id/amenities/:amenity_id", placeAmenityHandler.Link)
	v1.DELETE("/places/:place_id/amenities/:amenity_id", placeAmenityHandler.Unlink)

	// --- Auth routes ---
	if deps.JWTSecret != "" {
		authHandler := handler.NewAuthHandler(service.NewAuthService(deps.JWTSecret, 24*time.Hour))
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/auth/me", authHandler.Me, middleware.Auth(deps.JWTSecret))
	}

	return e
}

// registerResource mounts the CRUD routes of one type. Nested types are
// created under their parent, e.g. POST /states/:parent_id/cities.
func registerResource(g *echo.Group, h *handler.ResourceHandler) {
	r := h.Resource()
	g.GET("/"+r.Plural, h.List)
	g.GET("/"+r.Plural+"/:id", h.Get)
	g.PUT("/"+r.Plural+"/:id", h.Update)
	g.DELETE("/"+r.Plural+"/:id", h.Delete)

	if !r.Nested() {
		g.POST("/"+r.Plural, h.Create)
		return
	}
	parent := "/" + domain.ResourceOf(r.Parent).Plural + "/:parent_id/" + r.Plural
	g.GET(parent, h.ListByParent)
	g.POST(parent, h.Create)
}
