package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	defaultVarcharLength = 100
	maxVarcharLength     = 10000
)

// ColumnSpec is one inferred warehouse column.
type ColumnSpec struct {
	Name string
	Type string
}

// columnKind is the inference lattice: a column holding both ints and
// doubles becomes DOUBLE, anything mixed beyond that degrades to text.
type columnKind int

const (
	kindUnset columnKind = iota
	kindBool
	kindInt
	kindDouble
	kindDate
	kindDatetime
	kindText
)

var dateLayouts = []string{"2006-01-02"}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// InferSchema derives a column list from the raw rows. Field names
// starting with an underscore are datalake bookkeeping and excluded.
// Columns are sorted by name so the generated DDL is deterministic.
func InferSchema(rows []map[string]interface{}) ([]ColumnSpec, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to infer a schema from")
	}

	kinds := map[string]columnKind{}
	maxLengths := map[string]int{}

	for _, row := range rows {
		for field, value := range row {
			if strings.HasPrefix(field, "_") || value == nil {
				continue
			}

			kind, length, err := kindOf(value)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", field, err)
			}
			kinds[field] = mergeKinds(kinds[field], kind)
			if length > maxLengths[field] {
				maxLengths[field] = length
			}
		}
	}

	if len(kinds) == 0 {
		return nil, fmt.Errorf("rows contain no loadable columns")
	}

	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]ColumnSpec, 0, len(names))
	for _, name := range names {
		columns = append(columns, ColumnSpec{
			Name: name,
			Type: sqlType(kinds[name], maxLengths[name]),
		})
	}
	return columns, nil
}

func kindOf(value interface{}) (columnKind, int, error) {
	switch v := value.(type) {
	case bool:
		return kindBool, 0, nil
	case int, int32, int64:
		return kindInt, 0, nil
	case float32:
		return kindDouble, 0, nil
	case float64:
		// JSON numbers always decode as float64; keep integral ones INT
		if v == float64(int64(v)) {
			return kindInt, 0, nil
		}
		return kindDouble, 0, nil
	case time.Time:
		return kindDatetime, 0, nil
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return kindDate, len(v), nil
			}
		}
		for _, layout := range datetimeLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return kindDatetime, len(v), nil
			}
		}
		return kindText, len(v), nil
	default:
		return kindUnset, 0, fmt.Errorf("unknown type '%T'", value)
	}
}

func mergeKinds(current, observed columnKind) columnKind {
	if current == kindUnset || current == observed {
		return observed
	}

	// numeric widening is the only lossless merge
	if (current == kindInt && observed == kindDouble) || (current == kindDouble && observed == kindInt) {
		return kindDouble
	}
	if (current == kindDate && observed == kindDatetime) || (current == kindDatetime && observed == kindDate) {
		return kindDatetime
	}
	return kindText
}

func sqlType(kind columnKind, maxLength int) string {
	switch kind {
	case kindBool:
		return "BOOL"
	case kindInt:
		return "INT"
	case kindDouble:
		return "DOUBLE"
	case kindDate:
		return "DATE"
	case kindDatetime:
		return "DATETIME"
	default:
		length := maxLength
		if length == 0 {
			length = defaultVarcharLength
		}
		if length > maxVarcharLength {
			length = maxVarcharLength
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	}
}

// CreateTableQuery renders the warehouse DDL for the inferred schema.
func CreateTableQuery(table string, columns []ColumnSpec) string {
	fields := make([]string, 0, len(columns))
	for _, column := range columns {
		fields = append(fields, fmt.Sprintf("`%s` %s", column.Name, column.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (%s);", table, strings.Join(fields, ", "))
}

// InsertQuery renders the upsert statement. The dedupe key is written
// back to itself on duplicates, so re-loads are no-ops per key.
func InsertQuery(table string, columns []ColumnSpec, dedupeKey string) string {
	names := make([]string, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, "`"+column.Name+"`")
		placeholders = append(placeholders, "?")
	}

	return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s) ON DUPLICATE KEY UPDATE `%s`=`%s`;",
		table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		dedupeKey, dedupeKey,
	)
}
