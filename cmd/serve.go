package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/montoya-e/laked/cmd/server/web"
	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/services"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"github.com/montoya-e/laked/internal/handler"
	"github.com/montoya-e/laked/internal/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var port int
var shutdownWait int
var maxStartupHealthCheckTimeout uint
var disableMetrics bool
var waitForPorts bool

var ServeCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the data platform daemon",
	Long: `This command locks the terminal by starting the daemon, which loads
the stack descriptor, watches the declared database ports, schedules
pipeline jobs and exposes the API and websocket to monitor them.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		logger.Log().Info("Starting Lake Daemon")

		stackService, err := loadStackService()
		if err != nil {
			return fmt.Errorf("failed to load stack - %w", err)
		}

		currentStack := stackService.GetCurrent()
		logger.Log().Info("Stack loaded",
			zap.String("Path", stackService.GetPath()),
			zap.String("Version", currentStack.Version),
			zap.Int("Services", len(currentStack.Services)),
		)

		validator := services.NewStackValidator()
		findings := validator.Validate(currentStack)
		for _, finding := range findings {
			logger.Log().Warn("Stack finding",
				zap.String("severity", string(finding.Severity)),
				zap.String("service", finding.Service),
				zap.String("message", finding.Message),
			)
		}
		if domain.HasErrors(findings) {
			return fmt.Errorf("stack file %s is invalid", stackService.GetPath())
		}

		ctx := cmd.Context()

		portService := services.NewPortService()
		if _, err := portService.SyncStack(currentStack); err != nil {
			return err
		}

		monitor := services.NewMonitorService(!disableMetrics)
		defer monitor.ShutdownPromMetrics()

		logger.Log().Info("Starting resource monitor")
		monitor.StartMonitoring(ctx)

		logManager := services.NewLogManager()
		queueManager := services.NewQueueManager()

		registerPipelineJobs(queueManager, stackService, logManager, monitor)
		go queueManager.Work(ctx)

		var cronjobs []*domain.Cronjob
		if err := viper.UnmarshalKey("cron", &cronjobs); err != nil {
			return fmt.Errorf("invalid cron configuration - %w", err)
		}
		cronManager := services.NewCronManager(cronjobs, queueManager)
		if err := cronManager.Init(); err != nil {
			return fmt.Errorf("failed to start cron schedules - %w", err)
		}
		if len(cronjobs) > 0 {
			logger.Log().Info("Cron schedules active", zap.Int("count", len(cronjobs)))
		}

		authorizer := services.NewAuthorizer()

		stackHandler := handler.NewStackHandler(stackService, validator)
		healthHandler := handler.NewHealthHandler(portService, maxStartupHealthCheckTimeout)
		portHandler := handler.NewPortHandler(portService)
		queueHandler := handler.NewQueueHandler(queueManager)
		logHandler := handler.NewLogHandler(logManager)
		websocketHandler := handler.NewWebsocketHandler(authorizer, logManager)

		s := web.NewServer(stackHandler, healthHandler, portHandler, queueHandler, logHandler, websocketHandler, authorizer)
		app := s.Initialize()

		signals.SetupSignals(queueManager, cronManager, app, shutdownWait)

		if waitForPorts {
			logger.Log().Info("Waiting for declared service ports")
			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			err := portService.WaitAllOpen(waitCtx)
			cancel()
			if err != nil {
				return err
			}
		}

		now := time.Now()
		healthHandler.Started = &now

		logger.Log().Info("Daemon startup complete", zap.Int("port", port))
		err = s.Serve(app, port)

		logger.Log().Info("Shutting down")

		return err
	},
}

// registerPipelineJobs binds the ingest, load and pipeline jobs to the
// queue. Stores are built per run, so the daemon boots even while the
// databases are still coming up.
func registerPipelineJobs(
	queueManager *services.QueueManager,
	stackService *services.StackService,
	logManager *services.LogManager,
	monitor *services.MonitorService,
) {
	runIngest := func(ctx context.Context) error {
		objects, err := buildObjectStore()
		if err != nil {
			return err
		}
		documents, err := buildDocumentStore(ctx, stackService)
		if err != nil {
			return err
		}
		defer documents.Close(ctx)

		start := time.Now()
		report, err := services.NewDatalakeService(objects, documents, logManager).Ingest(ctx)
		monitor.ObserveIngest(report, time.Since(start))
		return err
	}

	runLoad := func(ctx context.Context) error {
		documents, err := buildDocumentStore(ctx, stackService)
		if err != nil {
			return err
		}
		defer documents.Close(ctx)

		db, err := buildWarehouseDB(stackService)
		if err != nil {
			return err
		}
		defer db.Close()

		warehouse := services.NewWarehouseService(
			documents,
			db,
			viper.GetString("mysql.table"),
			viper.GetString("mysql.dedupe_key"),
			logManager,
		)

		start := time.Now()
		report, err := warehouse.Load(ctx)
		monitor.ObserveLoad(report, time.Since(start))
		return err
	}

	queueManager.RegisterJob(domain.JobIngest, runIngest)
	queueManager.RegisterJob(domain.JobLoad, runLoad)
	queueManager.RegisterJob(domain.JobPipeline, func(ctx context.Context) error {
		if err := runIngest(ctx); err != nil {
			return err
		}
		return runLoad(ctx)
	})
}

func init() {
	ServeCommand.Flags().IntVarP(&port, "port", "p", 8081, "Port")
	ServeCommand.Flags().IntVarP(&shutdownWait, "shutdown-wait", "", 10, "Seconds a running job may take to finish on shutdown")
	ServeCommand.Flags().UintVar(&maxStartupHealthCheckTimeout, "max-startup-health-check-timeout", 0, "Seconds after which health stops reporting 503 even with closed ports")
	ServeCommand.Flags().BoolVar(&disableMetrics, "disable-metrics", false, "Disable prometheus metrics")
	ServeCommand.Flags().BoolVar(&waitForPorts, "wait-for-ports", false, "Block startup until the declared database ports are open")
}
