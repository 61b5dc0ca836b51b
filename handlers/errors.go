// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"authrelay-server/services"

	"github.com/labstack/echo/v4"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgInternalServer = "Internal server error"
)

// toHTTPError maps a service failure to a status. authStatus is the code
// used for KindAuth, which differs between login and OTP verification.
func toHTTPError(err error, authStatus int) *echo.HTTPError {
	var se *services.Error
	if !errors.As(err, &se) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}

	code := http.StatusInternalServerError
	switch se.Kind {
	case services.KindValidation, services.KindConflict:
		code = http.StatusBadRequest
	case services.KindAuth:
		code = authStatus
	case services.KindNotFound:
		code = http.StatusNotFound
	}
	return echo.NewHTTPError(code, se.Message).SetInternal(err)
}

// HTTPErrorHandler renders every error as {"error": "..."}. With
// exposeInternal unset, 5xx bodies carry a generic message instead of the
// underlying error text.
func HTTPErrorHandler(exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = fmt.Sprint(he.Message)
			}
		}

		if code >= http.StatusInternalServerError {
			c.Logger().Error(err)
			if !exposeInternal {
				msg = msgInternalServer
			}
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(code)
		} else {
			sendErr = c.JSON(code, ErrorResponse{Error: msg})
		}
		if sendErr != nil {
			c.Logger().Error(sendErr)
		}
	}
}
