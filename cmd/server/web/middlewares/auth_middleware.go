package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/core/ports"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

// TokenAuthentication guards the websocket group with single-use
// query tokens fetched from /api/v1/token.
func TokenAuthentication(authorizerService ports.AuthorizerServiceInterface) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Query("token")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		if err := authorizerService.CheckQuery(token); err != nil {
			logger.Log().Warn("Token authentication failed", zap.Error(err))
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		return ctx.Next()
	}
}
