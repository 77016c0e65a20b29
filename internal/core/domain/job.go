package domain

import "time"

type JobStatus string

const (
	JobStatusWaiting JobStatus = "waiting"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

const (
	JobIngest   = "ingest"
	JobLoad     = "load"
	JobPipeline = "pipeline"
)

type QueueItem struct {
	Job        string     `json:"job"`
	Status     JobStatus  `json:"status"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
} // @name QueueItem

type Cronjob struct {
	Name     string `mapstructure:"name" json:"name"`
	Schedule string `mapstructure:"schedule" json:"schedule"`
	Job      string `mapstructure:"job" json:"job"`
} // @name Cronjob

// IngestReport summarizes one datalake ingestion pass.
type IngestReport struct {
	Listed   int `json:"listed"`
	Ingested int `json:"ingested"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
} // @name IngestReport

// LoadReport summarizes one warehouse load pass.
type LoadReport struct {
	Table   string `json:"table"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
} // @name LoadReport
