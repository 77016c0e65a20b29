package ports

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type StackHandlerInterface interface {
	GetStack(c *fiber.Ctx) error
	Validate(c *fiber.Ctx) error
}

type HealthHandlerInterface interface {
	Health(c *fiber.Ctx) error
}

type PortHandlerInterface interface {
	GetPorts(c *fiber.Ctx) error
}

type QueueHandlerInterface interface {
	Queue(c *fiber.Ctx) error
	AddJob(c *fiber.Ctx) error
}

type LogHandlerInterface interface {
	ListAllLogs(c *fiber.Ctx) error
	ListStreamLogs(c *fiber.Ctx) error
}

type WebsocketHandlerInterface interface {
	CreateToken(c *fiber.Ctx) error
	HandleLogs(c *websocket.Conn)
}
