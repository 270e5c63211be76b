package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// GenericErrorMessage replaces the error text in 500 responses unless the
// build mode is debug.
const GenericErrorMessage = "An error occurred"

// NotFoundResponse is the body returned for any unmatched request.
type NotFoundResponse struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

// ErrorResponse is the body returned when a handler fails.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewErrorHandler returns the terminal echo error handler.  Unknown routes
// and known routes hit with the wrong method answer 404, reporting the path
// as the client sent it (still percent-encoded).  Everything else,
// including recovered panics, answers 500; the error text is included only
// when exposeErrors is set.
func NewErrorHandler(exposeErrors bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
			respond(c, http.StatusNotFound, NotFoundResponse{
				Error: "Not Found",
				Path:  c.Request().URL.EscapedPath(),
			})
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")

		msg := GenericErrorMessage
		if exposeErrors {
			msg = err.Error()
		}
		respond(c, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: msg,
		})
	}
}

func respond(c echo.Context, code int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}
