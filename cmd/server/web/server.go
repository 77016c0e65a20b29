package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/montoya-e/laked/cmd/server/web/middlewares"
	constants "github.com/montoya-e/laked/internal"
	"github.com/montoya-e/laked/internal/core/ports"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

type Server struct {
	corsMiddleware                fiber.Handler
	headerMiddleware              fiber.Handler
	tokenAuthenticationMiddleware fiber.Handler
	stackHandler                  ports.StackHandlerInterface
	healthHandler                 ports.HealthHandlerInterface
	portHandler                   ports.PortHandlerInterface
	queueHandler                  ports.QueueHandlerInterface
	logHandler                    ports.LogHandlerInterface
	websocketHandler              ports.WebsocketHandlerInterface
}

func NewServer(
	stackHandler ports.StackHandlerInterface,
	healthHandler ports.HealthHandlerInterface,
	portHandler ports.PortHandlerInterface,
	queueHandler ports.QueueHandlerInterface,
	logHandler ports.LogHandlerInterface,
	websocketHandler ports.WebsocketHandlerInterface,
	authorizerService ports.AuthorizerServiceInterface,
) *Server {
	return &Server{
		corsMiddleware: cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}),
		headerMiddleware:              middlewares.NewHeaderMiddleware(),
		tokenAuthenticationMiddleware: middlewares.TokenAuthentication(authorizerService),
		stackHandler:                  stackHandler,
		healthHandler:                 healthHandler,
		portHandler:                   portHandler,
		queueHandler:                  queueHandler,
		logHandler:                    logHandler,
		websocketHandler:              websocketHandler,
	}
}

func (s *Server) Initialize() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				return ctx.Status(code).JSON(e)
			}
			var fallback fiber.Error
			fallback.Code = code
			fallback.Message = err.Error()
			return ctx.Status(code).JSON(fallback)
		},
		DisableStartupMessage: true,
	})

	s.SetAPI(app)

	return app
}

func (s *Server) SetAPI(app *fiber.App) *fiber.App {
	app.Use(s.headerMiddleware)
	wsRoutes := app.Group("/ws/v1")
	v1 := app.Use(s.corsMiddleware).Group("/api/v1")
	apiRoutes := v1.Group("/")

	wsRoutes.Use(s.tokenAuthenticationMiddleware)

	//Stack Group
	apiRoutes.Get("/stack", s.stackHandler.GetStack).Name("stack.current")
	apiRoutes.Post("/validate", s.stackHandler.Validate).Name("stack.validate")

	//Ports Group
	apiRoutes.Get("/ports", s.portHandler.GetPorts).Name("ports.list")

	//Queue Group
	apiRoutes.Get("/queue", s.queueHandler.Queue).Name("queue.list")
	apiRoutes.Post("/jobs/:job", s.queueHandler.AddJob).Name("jobs.add")

	//Logs Group
	apiRoutes.Get("/logs", s.logHandler.ListAllLogs).Name("logs.list")
	apiRoutes.Get("/logs/:stream", s.logHandler.ListStreamLogs).Name("logs.stream")

	//Authentication Group
	apiRoutes.Get("/token", s.websocketHandler.CreateToken).Name("token.create")

	//Health Group
	apiRoutes.Get("/health", s.healthHandler.Health).Name("health")

	wsRoutes.Get("/logs", websocket.New(s.websocketHandler.HandleLogs)).Name("ws.logs")

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler())).Name("metrics")

	app.Get("/info", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"version": constants.Version,
		})
	})

	//Catch-all 404 page
	app.Use(func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(404)
	})

	return app
}

func (s *Server) Serve(app *fiber.App, port int) error {
	addr := fmt.Sprintf(":%d", port)
	if err := app.Listen(addr); err != nil {
		logger.Log().Error("web server error", zap.Error(err))
		return err
	}
	return nil
}
