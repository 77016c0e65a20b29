package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/api"
	"github.com/montoya-e/laked/internal/core/services"
)

func logApp(lm *services.LogManager) *fiber.App {
	h := NewLogHandler(lm)
	app := fiber.New()
	app.Get("/logs", h.ListAllLogs)
	app.Get("/logs/:stream", h.ListStreamLogs)
	return app
}

func TestLogHandler_ListAllLogs(t *testing.T) {
	lm := services.NewLogManager()
	lm.AddLine("ingest", "found 2 objects")
	app := logApp(lm)

	resp, err := app.Test(httptest.NewRequest("GET", "/logs", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	var body api.LogStreamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Expected json body, got %v", err)
	}
	if len(body.Streams) != 1 || body.Streams[0] != "ingest" {
		t.Errorf("Unexpected streams %v", body.Streams)
	}
}

func TestLogHandler_ListStreamLogs(t *testing.T) {
	lm := services.NewLogManager()
	lm.AddLine("load", "table gps_data ready")
	app := logApp(lm)

	// the stream goroutine appends asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(lm.GetLines("load")) == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/logs/load", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	var body api.LogLinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Expected json body, got %v", err)
	}
	if len(body.Lines) != 1 || body.Lines[0].Line != "table gps_data ready" {
		t.Errorf("Unexpected lines %+v", body.Lines)
	}
}
