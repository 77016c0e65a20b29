package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/api"
	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/ports"
)

type StackHandler struct {
	stackService ports.StackServiceInterface
	validator    ports.StackValidatorInterface
}

func NewStackHandler(
	stackService ports.StackServiceInterface,
	validator ports.StackValidatorInterface,
) *StackHandler {
	return &StackHandler{
		stackService,
		validator,
	}
}

// @Summary Get current stack descriptor
// @ID getStack
// @Tags stack, laked, daemon
// @Accept json
// @Produce json
// @Success 200 {object} api.StackResponse
// @Router /api/v1/stack [get]
func (h StackHandler) GetStack(c *fiber.Ctx) error {
	return c.JSON(api.StackResponse{Stack: h.stackService.GetCurrent()})
}

// @Summary Validate the current stack descriptor
// @ID validateStack
// @Tags stack, laked, daemon
// @Accept json
// @Produce json
// @Success 200 {object} api.ValidationResponse
// @Success 422 {object} api.ValidationResponse
// @Router /api/v1/validate [post]
func (h StackHandler) Validate(c *fiber.Ctx) error {
	findings := h.validator.Validate(h.stackService.GetCurrent())

	response := api.ValidationResponse{
		Valid:    !domain.HasErrors(findings),
		Findings: findings,
	}
	if !response.Valid {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response)
	}
	return c.JSON(response)
}
