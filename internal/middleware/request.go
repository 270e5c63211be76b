package middleware

// request.go wires echo's stock request middleware to the service's
// logging and ID conventions.

import (
    "net/http"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// RequestID tags every request with a UUID in X-Request-Id.  An id supplied
// by the client is kept.
func RequestID() echo.MiddlewareFunc {
    return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
        Generator: uuid.NewString,
    })
}

// AccessLog writes one zerolog event per request.  Errors are handed to the
// HTTP error handler first so the logged status is the one the client saw.
func AccessLog() echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:    true,
        LogURI:       true,
        LogStatus:    true,
        LogLatency:   true,
        LogRequestID: true,
        LogRemoteIP:  true,
        LogError:     true,
        HandleError:  true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            var ev *zerolog.Event
            switch {
            case v.Status >= 500:
                ev = log.Error().Err(v.Error)
            case v.Status >= 400:
                ev = log.Warn()
            default:
                ev = log.Info()
            }
            ev.Str("method", v.Method).
                Str("uri", v.URI).
                Int("status", v.Status).
                Dur("latency", v.Latency).
                Str("request_id", v.RequestID).
                Str("remote_ip", v.RemoteIP).
                Msg("request")
            return nil
        },
    })
}

// Recover turns handler panics into errors so they reach the HTTP error
// handler.  The stack is logged at error level.
func Recover() echo.MiddlewareFunc {
    return echomw.RecoverWithConfig(echomw.RecoverConfig{
        LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
            log.Error().Err(err).Bytes("stack", stack).Str("path", c.Request().URL.Path).Msg("panic recovered")
            return err
        },
    })
}

// headWriter drops the body while keeping status and headers.
type headWriter struct {
    http.ResponseWriter
}

func (w headWriter) Write(b []byte) (int, error) { return len(b), nil }

// DiscardBody lets a GET handler answer HEAD: the handler runs unchanged
// and only its body is thrown away.
func DiscardBody() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            c.Response().Writer = headWriter{ResponseWriter: c.Response().Writer}
            return next(c)
        }
    }
}
