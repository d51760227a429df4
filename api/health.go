package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"users-backend/constant"
	"users-backend/db"
)

type HealthHandler struct {
	pool *db.Pool
}

func NewHealthHandler(pool *db.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		return c.JSON(http.StatusServiceUnavailable, &PayloadError{Detail: constant.MSG_DB_UNAVAILABLE})
	}
	return c.JSON(http.StatusOK, &PayloadHealth{Status: "ok"})
}
