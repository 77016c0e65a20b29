package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/montoya-e/laked/internal/core/services"
)

func TestDatalakeService_Ingest(t *testing.T) {
	objects := &fakeObjectStore{objects: map[string]string{
		"data/2022-06-12-1.json": `{"event_uid": "a", "speed": 12.5}`,
		"data/2022-06-12-2.json": `{"event_uid": "b", "speed": 9.1}`,
	}}
	documents := newFakeDocumentStore()

	report, err := services.NewDatalakeService(objects, documents, nil).Ingest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Listed != 2 || report.Ingested != 2 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("Unexpected report %+v", report)
	}

	doc := documents.docs["data/2022-06-12-1.json"]
	if doc == nil {
		t.Fatal("Expected document stored under its object key")
	}
	if doc["_source_key"] != "data/2022-06-12-1.json" {
		t.Errorf("Expected source key annotation, got %v", doc["_source_key"])
	}
	if doc["event_uid"] != "a" {
		t.Errorf("Expected event_uid a, got %v", doc["event_uid"])
	}
}

func TestDatalakeService_SecondPassSkips(t *testing.T) {
	objects := &fakeObjectStore{objects: map[string]string{
		"data/1.json": `{"event_uid": "a"}`,
	}}
	documents := newFakeDocumentStore()
	service := services.NewDatalakeService(objects, documents, nil)

	if _, err := service.Ingest(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	report, err := service.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.Ingested != 0 || report.Skipped != 1 {
		t.Errorf("Expected second pass to skip, got %+v", report)
	}
}

func TestDatalakeService_BadObjectDoesNotAbort(t *testing.T) {
	objects := &fakeObjectStore{objects: map[string]string{
		"data/bad.json":  `this is not json`,
		"data/good.json": `{"event_uid": "a"}`,
	}}
	documents := newFakeDocumentStore()

	report, err := services.NewDatalakeService(objects, documents, nil).Ingest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.Failed != 1 || report.Ingested != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
	if len(documents.docs) != 1 {
		t.Errorf("Expected only the valid object stored, got %d", len(documents.docs))
	}
}

func TestDatalakeService_ListError(t *testing.T) {
	objects := &fakeObjectStore{listErr: errors.New("bucket unreachable")}
	documents := newFakeDocumentStore()

	if _, err := services.NewDatalakeService(objects, documents, nil).Ingest(context.Background()); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestDatalakeService_CancelledContext(t *testing.T) {
	objects := &fakeObjectStore{objects: map[string]string{
		"data/1.json": `{"event_uid": "a"}`,
	}}
	documents := newFakeDocumentStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := services.NewDatalakeService(objects, documents, nil).Ingest(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if report.Ingested != 0 {
		t.Errorf("Expected nothing ingested, got %+v", report)
	}
}
