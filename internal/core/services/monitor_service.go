package services

import (
	"context"
	"os"
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	processutil "github.com/shirou/gopsutil/process"
	"go.uber.org/zap"
)

// MonitorService exports the daemon's own resource usage and the
// pipeline throughput as prometheus metrics.
type MonitorService struct {
	exportedMetrics *MonitorMetricsExported
	self            *processutil.Process
	interval        time.Duration
}

type MonitorMetricsExported struct {
	prometheusCpuUsage       prometheus.Gauge
	prometheusMemoryUsage    prometheus.Gauge
	prometheusConnections    prometheus.Gauge
	prometheusObjectsTotal   *prometheus.CounterVec
	prometheusRowsLoaded     prometheus.Counter
	prometheusJobDuration    *prometheus.HistogramVec
}

func NewMonitorService(enableMetrics bool) *MonitorService {
	m := &MonitorService{
		interval: 5 * time.Second,
	}

	if self, err := processutil.NewProcess(int32(os.Getpid())); err == nil {
		m.self = self
	}

	if enableMetrics {
		m.exportedMetrics = NewMonitorMetricsExported()
	}

	return m
}

func NewMonitorMetricsExported() *MonitorMetricsExported {
	return &MonitorMetricsExported{
		prometheusCpuUsage: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "laked",
			Name:      "cpu_percent",
			Help:      "CPU usage of the daemon process",
		}),
		prometheusMemoryUsage: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "laked",
			Name:      "memory_rss_bytes",
			Help:      "Resident memory of the daemon process",
		}),
		prometheusConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "laked",
			Name:      "connections",
			Help:      "Open connections of the daemon process",
		}),
		prometheusObjectsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laked",
			Name:      "objects_total",
			Help:      "Objects seen per ingestion outcome",
		}, []string{"outcome"}),
		prometheusRowsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "laked",
			Name:      "rows_loaded_total",
			Help:      "Rows loaded into the warehouse",
		}),
		prometheusJobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "laked",
			Name:      "job_duration_seconds",
			Help:      "Duration of pipeline jobs",
		}, []string{"job"}),
	}
}

func (m *MonitorService) StartMonitoring(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.refreshMetrics()
			}
		}
	}()
}

func (m *MonitorService) refreshMetrics() {
	if m.exportedMetrics == nil || m.self == nil {
		return
	}

	if cpu, err := m.self.CPUPercent(); err == nil {
		m.exportedMetrics.prometheusCpuUsage.Set(cpu)
	}
	if mem, err := m.self.MemoryInfo(); err == nil {
		m.exportedMetrics.prometheusMemoryUsage.Set(float64(mem.RSS))
	}
	if conns, err := m.self.Connections(); err == nil {
		m.exportedMetrics.prometheusConnections.Set(float64(len(conns)))
	} else {
		logger.Log().Debug("Could not read connection count", zap.Error(err))
	}
}

func (m *MonitorService) ObserveIngest(report *domain.IngestReport, duration time.Duration) {
	if m.exportedMetrics == nil || report == nil {
		return
	}
	m.exportedMetrics.prometheusObjectsTotal.WithLabelValues("ingested").Add(float64(report.Ingested))
	m.exportedMetrics.prometheusObjectsTotal.WithLabelValues("skipped").Add(float64(report.Skipped))
	m.exportedMetrics.prometheusObjectsTotal.WithLabelValues("failed").Add(float64(report.Failed))
	m.exportedMetrics.prometheusJobDuration.WithLabelValues(domain.JobIngest).Observe(duration.Seconds())
}

func (m *MonitorService) ObserveLoad(report *domain.LoadReport, duration time.Duration) {
	if m.exportedMetrics == nil || report == nil {
		return
	}
	m.exportedMetrics.prometheusRowsLoaded.Add(float64(report.Rows))
	m.exportedMetrics.prometheusJobDuration.WithLabelValues(domain.JobLoad).Observe(duration.Seconds())
}

func (m *MonitorService) ShutdownPromMetrics() {
	if m.exportedMetrics == nil {
		logger.Log().Warn("No metrics registered, skipping")
		return
	}
	logger.Log().Info("Shutting down prometheus metrics")
	prometheus.DefaultRegisterer.Unregister(m.exportedMetrics.prometheusCpuUsage)
	prometheus.DefaultRegisterer.Unregister(m.exportedMetrics.prometheusMemoryUsage)
	prometheus.DefaultRegisterer.Unregister(m.exportedMetrics.prometheusConnections)
	prometheus.DefaultRegisterer.Unregister(m.exportedMetrics.prometheusObjectsTotal)
	prometheus.DefaultRegisterer.Unregister(m.exportedMetrics.prometheusRowsLoaded)
	prometheus.DefaultRegisterer.Unregister(m.exportedMetrics.prometheusJobDuration)
}
