package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/ports"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SQLExecutor is the slice of database/sql the warehouse needs.
// *sql.DB and *sql.Tx both satisfy it.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// WarehouseService reads the datalake's raw collection and loads it
// into a typed relational table, creating the table from the inferred
// schema on the way.
type WarehouseService struct {
	documents  ports.DocumentStoreInterface
	db         SQLExecutor
	table      string
	dedupeKey  string
	logManager ports.LogManagerInterface
}

func NewWarehouseService(
	documents ports.DocumentStoreInterface,
	db SQLExecutor,
	table string,
	dedupeKey string,
	logManager ports.LogManagerInterface,
) *WarehouseService {
	return &WarehouseService{
		documents:  documents,
		db:         db,
		table:      table,
		dedupeKey:  dedupeKey,
		logManager: logManager,
	}
}

// Load runs one full pass: read everything, infer the schema, create
// the table if needed and upsert every row.
func (s *WarehouseService) Load(ctx context.Context) (*domain.LoadReport, error) {
	docs, err := s.documents.FindAllRaw(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		logger.Log().Warn("Datalake collection is empty, nothing to load")
		return &domain.LoadReport{Table: s.table}, nil
	}

	rows := normalizeRows(docs)

	columns, err := InferSchema(rows)
	if err != nil {
		return nil, err
	}

	createQuery := CreateTableQuery(s.table, columns)
	if _, err := s.db.ExecContext(ctx, createQuery); err != nil {
		return nil, fmt.Errorf("failed to create warehouse table - %w", err)
	}
	s.logLine("table " + s.table + " ready")

	insertQuery := InsertQuery(s.table, columns, s.dedupeKey)

	report := &domain.LoadReport{Table: s.table, Columns: len(columns)}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		args := make([]interface{}, 0, len(columns))
		for _, column := range columns {
			args = append(args, row[column.Name])
		}
		if _, err := s.db.ExecContext(ctx, insertQuery, args...); err != nil {
			return report, fmt.Errorf("failed to insert row - %w", err)
		}
		report.Rows++
	}

	logger.Log().Info("Warehouse load finished",
		zap.String("table", s.table),
		zap.Int("rows", report.Rows),
		zap.Int("columns", report.Columns),
	)
	s.logLine(fmt.Sprintf("done: %d rows into %s", report.Rows, s.table))

	return report, nil
}

// normalizeRows converts driver-specific scalar types into plain Go
// values the schema inference and the sql driver both understand.
func normalizeRows(docs []map[string]interface{}) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		row := make(map[string]interface{}, len(doc))
		for field, value := range doc {
			row[field] = normalizeValue(value)
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time()
	case primitive.ObjectID:
		return v.Hex()
	case primitive.Decimal128:
		return v.String()
	case primitive.A:
		return fmt.Sprint([]interface{}(v))
	default:
		return value
	}
}

func (s *WarehouseService) logLine(line string) {
	if s.logManager != nil {
		s.logManager.AddLine(domain.JobLoad, line)
	}
}
