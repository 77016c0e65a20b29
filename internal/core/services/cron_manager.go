package services

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/ports"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

type CronManager struct {
	crons        []*domain.Cronjob
	queueManager ports.QueueManagerInterface
	scheduler    *gocron.Scheduler
}

func NewCronManager(cronjobs []*domain.Cronjob, queueManager ports.QueueManagerInterface) *CronManager {
	return &CronManager{
		crons:        cronjobs,
		queueManager: queueManager,
	}
}

func (c *CronManager) Init() error {
	scheduler := gocron.NewScheduler(time.UTC)
	for _, cron := range c.crons {
		cron := cron
		_, err := scheduler.Cron(cron.Schedule).Do(func() {
			logger.Log().Info("Cronjob started", zap.String("name", cron.Name), zap.String("job", cron.Job))

			err := c.queueManager.AddItem(cron.Job)

			if err != nil {
				logger.Log().Error("error enqueueing cronjob", zap.String("name", cron.Name), zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
	}
	scheduler.StartAsync()
	c.scheduler = scheduler
	return nil
}

func (c *CronManager) Stop() {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
}
