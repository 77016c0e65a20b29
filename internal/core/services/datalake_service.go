package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/ports"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

const sourceKeyField = "_source_key"

// DatalakeService moves raw JSON objects from the object store into
// the datalake's document store, one document per object.
type DatalakeService struct {
	objects    ports.ObjectStoreInterface
	documents  ports.DocumentStoreInterface
	logManager ports.LogManagerInterface
}

func NewDatalakeService(
	objects ports.ObjectStoreInterface,
	documents ports.DocumentStoreInterface,
	logManager ports.LogManagerInterface,
) *DatalakeService {
	return &DatalakeService{
		objects:    objects,
		documents:  documents,
		logManager: logManager,
	}
}

// Ingest runs one full pass over the bucket. Objects that fail to
// decode or store are counted and skipped; they never abort the pass.
func (s *DatalakeService) Ingest(ctx context.Context) (*domain.IngestReport, error) {
	keys, err := s.objects.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.IngestReport{Listed: len(keys)}
	s.logLine(fmt.Sprintf("found %d objects", len(keys)))

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		inserted, err := s.ingestObject(ctx, key)
		if err != nil {
			report.Failed++
			logger.Log().Warn("Failed to ingest object", zap.String("key", key), zap.Error(err))
			s.logLine(fmt.Sprintf("failed %s: %v", key, err))
			continue
		}
		if inserted {
			report.Ingested++
		} else {
			report.Skipped++
		}
	}

	logger.Log().Info("Ingestion pass finished",
		zap.Int("listed", report.Listed),
		zap.Int("ingested", report.Ingested),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	s.logLine(fmt.Sprintf("done: %d ingested, %d skipped, %d failed",
		report.Ingested, report.Skipped, report.Failed))

	return report, nil
}

func (s *DatalakeService) ingestObject(ctx context.Context, key string) (bool, error) {
	body, err := s.objects.Fetch(ctx, key)
	if err != nil {
		return false, err
	}
	defer body.Close()

	doc := map[string]interface{}{}
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return false, fmt.Errorf("object %s is not valid json - %w", key, err)
	}
	doc[sourceKeyField] = key

	return s.documents.UpsertRaw(ctx, key, doc)
}

func (s *DatalakeService) logLine(line string) {
	if s.logManager != nil {
		s.logManager.AddLine(domain.JobIngest, line)
	}
}
