package api

import (
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
)

type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
} // @name ErrorResponse

type HealthResponse struct {
	Mode      string     `json:"mode"`
	StartDate *time.Time `json:"start_date,omitempty"`
} // @name HealthResponse

type ValidationResponse struct {
	Valid    bool             `json:"valid"`
	Findings []domain.Finding `json:"findings"`
} // @name ValidationResponse

type StackResponse struct {
	Stack *domain.StackFile `json:"stack"`
} // @name StackResponse

type QueueResponse struct {
	Items []*domain.QueueItem `json:"items"`
} // @name QueueResponse

type LogStreamsResponse struct {
	Streams []string `json:"streams"`
} // @name LogStreamsResponse

type LogLinesResponse struct {
	Lines []domain.StreamLine `json:"lines"`
} // @name LogLinesResponse

type TokenResponse struct {
	Token string `json:"token"`
} // @name TokenResponse
