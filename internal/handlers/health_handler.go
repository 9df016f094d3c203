package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	pingDB    PingFunc
	pingCache PingFunc
}

func NewHealthHandler(pingDB, pingCache PingFunc) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, pingCache: pingCache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Cache:     "ok",
	}

	if err := h.pingDB(ctx); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
	}
	if h.pingCache == nil {
		resp.Cache = "disabled"
	} else if err := h.pingCache(ctx); err != nil {
		resp.Status = "degraded"
		resp.Cache = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if resp.DB != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(resp)
}
