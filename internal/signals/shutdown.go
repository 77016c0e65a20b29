package signals

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/core/ports"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

func SetupSignals(queueManager ports.QueueManagerInterface, cronManager ports.CronManagerInterface, app *fiber.App, waitSeconds int) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		os.Interrupt,
	)

	go func() {
		s := <-sigc

		logger.Log().Info("Received shutdown signal", zap.String("signal", s.String()))

		GracefulShutdown(queueManager, cronManager, app, waitSeconds)
	}()
}

// GracefulShutdown stops the cron schedules, lets the job in flight
// finish and then takes down the web server. A second timer force
// exits if the job refuses to end.
func GracefulShutdown(queueManager ports.QueueManagerInterface, cronManager ports.CronManagerInterface, app *fiber.App, waitSeconds int) {
	if cronManager != nil {
		logger.Log().Info("Stopping cron schedules")
		cronManager.Stop()
	}

	done := make(chan struct{})
	go func() {
		queueManager.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Log().Info("Queue drained")
	case <-time.After(time.Duration(waitSeconds) * time.Second):
		logger.Log().Warn("Job still running after grace period, exiting anyway")
	}

	if app != nil {
		app.Shutdown()
	}
	logger.Log().Info("Quitting...")
	os.Exit(0)
}
