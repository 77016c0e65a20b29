package ports

import (
	"context"
	"io"
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"go.uber.org/zap/zapcore"
	"oras.land/oras-go/v2/registry/remote"
)

type LogDriverInterface interface {
	Info(msg string, fields ...zapcore.Field)
	Debug(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field)
}

type StackServiceInterface interface {
	GetCurrent() *domain.StackFile
	GetRawYaml() []byte
	GetPath() string
	GetCwd() string
	Reload() (*domain.StackFile, error)
	CheckMinVersion() error
	MongoEndpoint() (*domain.MongoEndpoint, error)
	MySQLEndpoint() (*domain.MySQLEndpoint, error)
}

type StackValidatorInterface interface {
	Validate(stack *domain.StackFile) []domain.Finding
	ResolveImages(ctx context.Context, stack *domain.StackFile) []domain.Finding
}

type PortServiceInterface interface {
	SyncStack(stack *domain.StackFile) ([]*domain.AugmentedPort, error)
	GetPorts() []*domain.AugmentedPort
	CheckOpen(port int) bool
	MandatoryPortsOpen() bool
	WaitAllOpen(ctx context.Context) error
}

type ObjectStoreInterface interface {
	List(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

type DocumentStoreInterface interface {
	UpsertRaw(ctx context.Context, key string, doc map[string]interface{}) (bool, error)
	FindAllRaw(ctx context.Context) ([]map[string]interface{}, error)
	Close(ctx context.Context) error
}

type DatalakeServiceInterface interface {
	Ingest(ctx context.Context) (*domain.IngestReport, error)
}

type WarehouseServiceInterface interface {
	Load(ctx context.Context) (*domain.LoadReport, error)
}

type OciRegistryInterface interface {
	GetRepo(repoUrl string) (*remote.Repository, error)
	Resolve(ctx context.Context, imageRef string) (v1.Descriptor, error)
}

type QueueManagerInterface interface {
	RegisterJob(name string, runner func(ctx context.Context) error)
	AddItem(job string) error
	Items() []*domain.QueueItem
	Work(ctx context.Context)
	Shutdown()
}

type CronManagerInterface interface {
	Init() error
	Stop()
}

type LogManagerInterface interface {
	AddLine(stream string, line string)
	GetStreams() map[string]*domain.LogStream
	GetLines(stream string) []domain.StreamLine
	Subscribe() chan *[]byte
	Unsubscribe(subscription chan *[]byte)
}

type MonitorServiceInterface interface {
	StartMonitoring(ctx context.Context)
	ObserveIngest(report *domain.IngestReport, duration time.Duration)
	ObserveLoad(report *domain.LoadReport, duration time.Duration)
	ShutdownPromMetrics()
}

type TemplateRendererInterface interface {
	RenderTemplate(templateBody string, data interface{}) (string, error)
	RenderStackTemplateFiles(templateBase string, templateFiles []string, data interface{}, outputDir string) error
}

type AuthorizerServiceInterface interface {
	GenerateQueryToken() string
	CheckQuery(token string) error
}
