package middlewares

import (
	"github.com/gofiber/fiber/v2"
	constants "github.com/montoya-e/laked/internal"
)

func NewHeaderMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Response().Header.Set("Laked-Version", constants.Version)
		return ctx.Next()
	}
}
