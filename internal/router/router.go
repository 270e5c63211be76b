package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/build-info-service/internal/handler"    // import the handlers that serve build metadata
	"github.com/iliyamo/build-info-service/internal/middleware" // import request id, logging, recovery and cache middleware
)

// New builds the Echo instance for the service: error handler, global
// middleware and routes.  exposeErrors controls whether 500 responses carry
// the raw error text.  versionCache, when non-nil, wraps GET /api/version.
func New(h *handler.MetaHandler, exposeErrors bool, versionCache echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(exposeErrors)

	// Order matters: the access log must observe errors produced by Recover.
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog())
	e.Use(middleware.Recover())

	RegisterRoutes(e, h, versionCache)
	return e
}

// RegisterRoutes maps the read-only metadata endpoints.  Each one answers
// GET and HEAD; anything else falls through to the error handler as a 404.
func RegisterRoutes(e *echo.Echo, h *handler.MetaHandler, versionCache echo.MiddlewareFunc) {
	get(e, "/", h.Root)
	get(e, "/health", h.Health)
	get(e, "/info", h.Info)

	// The version payload is fixed for the lifetime of a build, so it is the
	// one route worth caching.
	if versionCache != nil {
		get(e, "/api/version", h.Version, versionCache)
	} else {
		get(e, "/api/version", h.Version)
	}
}

// get registers h for GET and for HEAD, the latter without a body.
func get(e *echo.Echo, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	e.GET(path, h, m...)
	e.HEAD(path, h, append([]echo.MiddlewareFunc{middleware.DiscardBody()}, m...)...)
}

// Endpoints lists the registered routes for the startup banner.
var Endpoints = []struct{ Path, Description string }{
	{"/", "Welcome message"},
	{"/health", "Health check"},
	{"/info", "Detailed information"},
	{"/api/version", "API version"},
}
