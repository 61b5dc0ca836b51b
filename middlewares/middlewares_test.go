// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"authrelay-server/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func do(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	e := echo.New()
	e.Use(Metrics(m))
	e.GET("/ok/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/bad", func(echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad") })
	e.GET("/fail", func(echo.Context) error { return errors.New("boom") })

	do(e, http.MethodGet, "/ok/1")
	do(e, http.MethodGet, "/ok/2")
	do(e, http.MethodGet, "/bad")
	do(e, http.MethodGet, "/fail")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/ok/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/bad", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/fail", "500")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.HTTPDuration))
}

func TestMetrics_NilIsPassThrough(t *testing.T) {
	e := echo.New()
	e.Use(Metrics(nil))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "hi") })

	rec := do(e, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)
	logger.SetHeader("${level}")
	logger.SetLevel(log.DEBUG)

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(echo.Context) error { return echo.ErrNotFound })
	e.GET("/fail", func(echo.Context) error { return errors.New("boom") })

	do(e, http.MethodGet, "/ok")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "GET /ok - 200")

	buf.Reset()
	do(e, http.MethodGet, "/missing")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "GET /missing - 404")

	buf.Reset()
	do(e, http.MethodGet, "/fail")
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "GET /fail - 500")
}
