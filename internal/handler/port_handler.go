package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/core/ports"
)

type PortHandler struct {
	portService ports.PortServiceInterface
}

func NewPortHandler(
	portService ports.PortServiceInterface,
) *PortHandler {
	return &PortHandler{
		portService,
	}
}

// @Summary Get declared host ports with reachability state
// @ID getPorts
// @Tags ports, laked, daemon
// @Accept json
// @Produce json
// @Success 200 {array} domain.AugmentedPort
// @Router /api/v1/ports [get]
func (p PortHandler) GetPorts(c *fiber.Ctx) error {
	augmentedPorts := p.portService.GetPorts()

	return c.JSON(augmentedPorts)
}
