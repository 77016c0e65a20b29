package services_test

import (
	"strings"
	"testing"

	"github.com/montoya-e/laked/internal/core/services"
)

func columnTypes(columns []services.ColumnSpec) map[string]string {
	out := make(map[string]string, len(columns))
	for _, column := range columns {
		out[column.Name] = column.Type
	}
	return out
}

func TestInferSchema_Types(t *testing.T) {
	rows := []map[string]interface{}{
		{
			"event_uid":  "d9aaf9ef-2b9b-4bd1-95b7-f9b74a4a40e9",
			"on_trip":    false,
			"speed":      12.5,
			"satellites": float64(7),
			"at":         "2022-06-12T14:03:51",
			"day":        "2022-06-12",
		},
	}

	columns, err := services.InferSchema(rows)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	types := columnTypes(columns)
	expected := map[string]string{
		"event_uid":  "VARCHAR(36)",
		"on_trip":    "BOOL",
		"speed":      "DOUBLE",
		"satellites": "INT",
		"at":         "DATETIME",
		"day":        "DATE",
	}
	for name, want := range expected {
		if types[name] != want {
			t.Errorf("Expected column %s to be %s, got %s", name, want, types[name])
		}
	}
}

func TestInferSchema_NumericWidening(t *testing.T) {
	rows := []map[string]interface{}{
		{"speed": float64(3)},
		{"speed": 3.7},
	}

	columns, err := services.InferSchema(rows)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if columns[0].Type != "DOUBLE" {
		t.Errorf("Expected DOUBLE, got %s", columns[0].Type)
	}
}

func TestInferSchema_DateWidensToDatetime(t *testing.T) {
	rows := []map[string]interface{}{
		{"at": "2022-06-12"},
		{"at": "2022-06-12 14:03:51"},
	}

	columns, err := services.InferSchema(rows)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if columns[0].Type != "DATETIME" {
		t.Errorf("Expected DATETIME, got %s", columns[0].Type)
	}
}

func TestInferSchema_MixedDegradesToText(t *testing.T) {
	rows := []map[string]interface{}{
		{"value": float64(3)},
		{"value": "not a number at all"},
	}

	columns, err := services.InferSchema(rows)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(columns[0].Type, "VARCHAR(") {
		t.Errorf("Expected VARCHAR column, got %s", columns[0].Type)
	}
}

func TestInferSchema_VarcharLength(t *testing.T) {
	tests := []struct {
		name string
		rows []map[string]interface{}
		want string
	}{
		{
			"tracks longest value",
			[]map[string]interface{}{
				{"note": "short text value here yes"},
				{"note": strings.Repeat("x", 240)},
			},
			"VARCHAR(240)",
		},
		{
			"capped at ten thousand",
			[]map[string]interface{}{
				{"note": strings.Repeat("x", 20000)},
			},
			"VARCHAR(10000)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, err := services.InferSchema(tt.rows)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if columns[0].Type != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, columns[0].Type)
			}
		})
	}
}

func TestInferSchema_SkipsBookkeepingAndNil(t *testing.T) {
	rows := []map[string]interface{}{
		{"_source_key": "data/1.json", "_id": "data/1.json", "speed": nil},
		{"speed": 3.2},
	}

	columns, err := services.InferSchema(rows)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(columns) != 1 || columns[0].Name != "speed" {
		t.Errorf("Expected only speed column, got %v", columns)
	}
}

func TestInferSchema_UnknownType(t *testing.T) {
	rows := []map[string]interface{}{
		{"payload": map[string]interface{}{"nested": true}},
	}

	_, err := services.InferSchema(rows)
	if err == nil {
		t.Fatal("Expected error for nested value, got nil")
	}
	if !strings.Contains(err.Error(), "unknown type") {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestInferSchema_NoRows(t *testing.T) {
	if _, err := services.InferSchema(nil); err == nil {
		t.Fatal("Expected error for empty input, got nil")
	}
}

func TestCreateTableQuery(t *testing.T) {
	columns := []services.ColumnSpec{
		{Name: "at", Type: "DATETIME"},
		{Name: "event_uid", Type: "VARCHAR(36)"},
	}

	query := services.CreateTableQuery("gps_data", columns)
	expected := "CREATE TABLE IF NOT EXISTS `gps_data` (`at` DATETIME, `event_uid` VARCHAR(36));"
	if query != expected {
		t.Errorf("Expected %q, got %q", expected, query)
	}
}

func TestInsertQuery(t *testing.T) {
	columns := []services.ColumnSpec{
		{Name: "at", Type: "DATETIME"},
		{Name: "event_uid", Type: "VARCHAR(36)"},
	}

	query := services.InsertQuery("gps_data", columns, "event_uid")
	expected := "INSERT INTO `gps_data` (`at`, `event_uid`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `event_uid`=`event_uid`;"
	if query != expected {
		t.Errorf("Expected %q, got %q", expected, query)
	}
}
