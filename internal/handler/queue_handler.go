package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/api"
	"github.com/montoya-e/laked/internal/core/ports"
	"github.com/montoya-e/laked/internal/core/services"
)

type QueueHandler struct {
	queueManager ports.QueueManagerInterface
}

func NewQueueHandler(queueManager ports.QueueManagerInterface) *QueueHandler {
	return &QueueHandler{
		queueManager,
	}
}

// @Summary List queued and finished pipeline jobs
// @ID getQueue
// @Tags queue, laked, daemon
// @Accept json
// @Produce json
// @Success 200 {object} api.QueueResponse
// @Router /api/v1/queue [get]
func (h QueueHandler) Queue(c *fiber.Ctx) error {
	return c.JSON(api.QueueResponse{Items: h.queueManager.Items()})
}

// @Summary Enqueue a pipeline job
// @ID addJob
// @Tags queue, laked, daemon
// @Accept json
// @Produce json
// @Param job path string true "job name (ingest, load, pipeline)"
// @Success 201 {object} api.QueueResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /api/v1/jobs/{job} [post]
func (h QueueHandler) AddJob(c *fiber.Ctx) error {
	job := c.Params("job")

	err := h.queueManager.AddItem(job)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, services.ErrJobNotFound) {
			status = fiber.StatusNotFound
		} else if errors.Is(err, services.ErrAlreadyInQueue) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(api.ErrorResponse{
			Status: "error",
			Error:  err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(api.QueueResponse{Items: h.queueManager.Items()})
}
