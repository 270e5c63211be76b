package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
    Status      string  `json:"status"`
    Environment string  `json:"environment"`
    Uptime      float64 `json:"uptime"`
}

// Health is the health-check endpoint used by load balancers and
// monitoring systems.  It always answers 200 with the environment name and
// the process uptime in seconds.
func (h *MetaHandler) Health(c echo.Context) error {
    return c.JSON(http.StatusOK, HealthResponse{
        Status:      "healthy",
        Environment: h.Build.Environment,
        Uptime:      h.uptime(),
    })
}
