// Package handler exposes the HTTP handlers of the build-info service.
// Every handler is read-only: it serializes the BuildInfo captured at
// startup, optionally together with live process statistics.

package handler

import (
    "net/http"
    "runtime"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/build-info-service/internal/model"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "🚀 Docker Build with Parameters Demo"

// MetaHandler serves the metadata endpoints.  Build is a copy of the record
// loaded at startup and StartedAt is the process start time used for
// uptime.
type MetaHandler struct {
    Build     model.BuildInfo
    StartedAt time.Time
    now       func() time.Time
}

// NewMetaHandler constructs a MetaHandler for info.  startedAt should come
// from time.Now() so uptime is measured on the monotonic clock.
func NewMetaHandler(info model.BuildInfo, startedAt time.Time) *MetaHandler {
    return &MetaHandler{Build: info, StartedAt: startedAt, now: time.Now}
}

// RootResponse is the body of GET /.
type RootResponse struct {
    Message   string          `json:"message"`
    BuildInfo model.BuildInfo `json:"buildInfo"`
    Timestamp string          `json:"timestamp"`
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
    BuildInfo model.BuildInfo    `json:"buildInfo"`
    Runtime   model.RuntimeStats `json:"runtime"`
}

// VersionResponse is the body of GET /api/version.  Field order is part of
// the wire format.
type VersionResponse struct {
    Version     string `json:"version"`
    Environment string `json:"environment"`
    BuildDate   string `json:"buildDate"`
}

// Root returns a welcome message, the build info and the current time.
func (h *MetaHandler) Root(c echo.Context) error {
    return c.JSON(http.StatusOK, RootResponse{
        Message:   WelcomeMessage,
        BuildInfo: h.Build,
        Timestamp: model.FormatTime(h.now()),
    })
}

// Info returns the build info together with a runtime snapshot.
func (h *MetaHandler) Info(c echo.Context) error {
    return c.JSON(http.StatusOK, InfoResponse{
        BuildInfo: h.Build,
        Runtime:   h.runtimeStats(),
    })
}

// Version returns the API version, environment and build date.
func (h *MetaHandler) Version(c echo.Context) error {
    return c.JSON(http.StatusOK, VersionResponse{
        Version:     h.Build.APIVersion,
        Environment: h.Build.Environment,
        BuildDate:   h.Build.BuildDate,
    })
}

// uptime returns seconds since StartedAt, never negative.
func (h *MetaHandler) uptime() float64 {
    d := time.Since(h.StartedAt)
    if d < 0 {
        return 0
    }
    return d.Seconds()
}

func (h *MetaHandler) runtimeStats() model.RuntimeStats {
    var ms runtime.MemStats
    runtime.ReadMemStats(&ms)
    return model.RuntimeStats{
        GoVersion:    runtime.Version(),
        Platform:     runtime.GOOS,
        Arch:         runtime.GOARCH,
        NumCPU:       runtime.NumCPU(),
        NumGoroutine: runtime.NumGoroutine(),
        Uptime:       h.uptime(),
        MemoryUsage: model.MemoryUsage{
            Alloc:      ms.Alloc,
            TotalAlloc: ms.TotalAlloc,
            Sys:        ms.Sys,
            HeapAlloc:  ms.HeapAlloc,
            HeapSys:    ms.HeapSys,
            HeapInuse:  ms.HeapInuse,
            NumGC:      ms.NumGC,
        },
    }
}
