package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"users-backend/constant"
	"users-backend/db"
)

// ErrorHandler renders every error returned by a handler as {"detail": ...}.
// Data-access failures only ever expose the generic message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var detail interface{} = http.StatusText(status)

	var dae *db.DataAccessError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &dae):
		status, detail = dae.StatusCode(), dae.PublicMessage()
	case db.IsNotFound(err):
		status, detail = http.StatusNotFound, constant.MSG_USER_NOT_FOUND
	case errors.As(err, &he):
		status, detail = he.Code, he.Message
		if inner, ok := he.Message.(error); ok {
			detail = inner.Error()
		}
	default:
		log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("Unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, &PayloadError{Detail: detail})
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}
