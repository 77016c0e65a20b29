package handler

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/api"
	"github.com/montoya-e/laked/internal/core/ports"
)

type HealthHandler struct {
	portService ports.PortServiceInterface
	timeoutDone atomic.Bool
	Started     *time.Time
}

func NewHealthHandler(
	portService ports.PortServiceInterface,
	timeoutSec uint,
) *HealthHandler {

	h := &HealthHandler{
		portService: portService,
	}

	// if timeoutSec == 0, we want at some point to not show a bad health status
	if timeoutSec != 0 {
		timeout := time.NewTimer(time.Duration(timeoutSec) * time.Second)
		go h.countdown(timeout)
	}

	return h
}

// @Summary Daemon health, gated on the declared database ports
// @ID getHealth
// @Tags health, laked, daemon
// @Accept */*
// @Produce json
// @Success 200 {object} api.HealthResponse
// @Success 503 {object} api.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {

	portsOpen := h.portService.MandatoryPortsOpen()

	if !h.timeoutDone.Load() && !portsOpen {
		return c.Status(fiber.StatusServiceUnavailable).JSON(api.HealthResponse{Mode: "mandatory_ports"})
	}

	if h.Started == nil {
		return c.JSON(api.HealthResponse{Mode: "idle"})
	}

	return c.JSON(api.HealthResponse{Mode: "ok", StartDate: h.Started})
}

func (h *HealthHandler) countdown(timeout *time.Timer) {
	<-timeout.C
	h.timeoutDone.Store(true)
}
