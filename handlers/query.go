package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/thebettingsean/trends-api/cache"
	"github.com/thebettingsean/trends-api/engine"
)

// Query runs one trend query. The raw body doubles as the cache key, so
// identical requests inside the TTL never touch the store.
func (h *Handler) Query(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key := cache.Key(body)
	if cached, ok := h.cache.Get(c.Request().Context(), key); ok {
		return c.JSONBlob(http.StatusOK, cached)
	}

	var req engine.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	resp, err := h.engine.Execute(c.Request().Context(), req)
	if err != nil {
		return queryError(err)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Set(c.Request().Context(), key, out)

	return c.JSONBlob(http.StatusOK, out)
}

// queryError maps engine failures onto HTTP statuses: bad requests are
// the caller's fault, limit overruns ask for narrower filters, store
// failures are upstream trouble.
func queryError(err error) error {
	var (
		vErr *engine.ValidationError
		lErr *engine.ExecutionLimitError
		sErr *engine.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.As(err, &lErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, lErr.Error())
	case errors.As(err, &sErr):
		zap.L().Error("query failed", zap.Error(sErr))
		return echo.NewHTTPError(http.StatusBadGateway, "data store unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
