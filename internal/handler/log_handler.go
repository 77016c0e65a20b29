package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/api"
	"github.com/montoya-e/laked/internal/core/ports"
)

type LogHandler struct {
	logManager ports.LogManagerInterface
}

func NewLogHandler(logManager ports.LogManagerInterface) *LogHandler {
	return &LogHandler{
		logManager,
	}
}

// @Summary List job log streams
// @ID getLogs
// @Tags logs, laked, daemon
// @Accept json
// @Produce json
// @Success 200 {object} api.LogStreamsResponse
// @Router /api/v1/logs [get]
func (h LogHandler) ListAllLogs(c *fiber.Ctx) error {
	streams := h.logManager.GetStreams()

	names := make([]string, 0, len(streams))
	for name := range streams {
		names = append(names, name)
	}
	return c.JSON(api.LogStreamsResponse{Streams: names})
}

// @Summary Get retained lines of one job log stream
// @ID getStreamLogs
// @Tags logs, laked, daemon
// @Accept json
// @Produce json
// @Param stream path string true "stream name"
// @Success 200 {object} api.LogLinesResponse
// @Router /api/v1/logs/{stream} [get]
func (h LogHandler) ListStreamLogs(c *fiber.Ctx) error {
	lines := h.logManager.GetLines(c.Params("stream"))
	return c.JSON(api.LogLinesResponse{Lines: lines})
}
