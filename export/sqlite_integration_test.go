package export_test

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/goliatone/go-sqlexport/export"
	exportsql "github.com/goliatone/go-sqlexport/sources/sql"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func writeSQLiteTable(t *testing.T, rows [][2]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mydata.sql")
	db, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if _, err := db.Exec(`CREATE TABLE mydata (id INTEGER, label TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, row := range rows {
		if _, err := db.Exec(`INSERT INTO mydata (id, label) VALUES (?, ?)`, row[0], row[1]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func sqliteConfig(t *testing.T, source string, batchSize int) export.Config {
	t.Helper()
	cfg := export.Defaults()
	cfg.SourcePath = source
	cfg.SinkPath = filepath.Join(t.TempDir(), "output.csv")
	cfg.BatchSize = batchSize
	return cfg
}

func TestExporter_SQLiteScenario(t *testing.T) {
	source := writeSQLiteTable(t, [][2]any{{1, "a"}, {2, "b"}, {3, "c"}})
	cfg := sqliteConfig(t, source, 2)

	result, err := export.NewExporter(exportsql.NewSource()).Export(context.Background(), cfg)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Batches != 2 || result.Rows != 3 {
		t.Fatalf("expected 2 batches and 3 rows, got %+v", result)
	}

	data, err := os.ReadFile(cfg.SinkPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(data), "1,a\n2,b\n3,c\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExporter_SQLiteRoundTrip(t *testing.T) {
	var rows [][2]any
	for i := 0; i < 2345; i++ {
		rows = append(rows, [2]any{i, "label, " + strconv.Itoa(i) + " \"quoted\""})
	}
	source := writeSQLiteTable(t, rows)
	cfg := sqliteConfig(t, source, 1000)
	cfg.Output.Delimiter = '\t'

	result, err := export.NewExporter(exportsql.NewSource()).Export(context.Background(), cfg)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Batches != 3 {
		t.Fatalf("expected 3 batches, got %d", result.Batches)
	}

	file, err := os.Open(cfg.SinkPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != len(rows) {
		t.Fatalf("expected %d records, got %d", len(rows), len(records))
	}
	for i, record := range records {
		if record[0] != strconv.Itoa(rows[i][0].(int)) || record[1] != rows[i][1].(string) {
			t.Fatalf("record %d mismatch: %v", i, record)
		}
	}
}

func TestExporter_SQLiteSingleColumnEmptyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mydata.sql")
	db, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE mydata (label TEXT); INSERT INTO mydata VALUES ('a'), (NULL), (''), ('b');`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	cfg := sqliteConfig(t, path, 3)

	result, err := export.NewExporter(exportsql.NewSource()).Export(context.Background(), cfg)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Rows != 4 {
		t.Fatalf("expected 4 rows, got %d", result.Rows)
	}

	file, err := os.Open(cfg.SinkPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	want := []string{"a", "", "", "b"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %q", len(want), records)
	}
	for i, record := range records {
		if len(record) != 1 || record[0] != want[i] {
			t.Fatalf("record %d: expected %q, got %q", i, want[i], record)
		}
	}
}

func TestExporter_SQLiteMissingTable(t *testing.T) {
	source := writeSQLiteTable(t, nil)
	cfg := sqliteConfig(t, source, 2)
	cfg.Query = "select * from nonexistent"

	_, err := export.NewExporter(exportsql.NewSource()).Export(context.Background(), cfg)
	if export.KindFromError(err) != export.KindQuery {
		t.Fatalf("expected query error, got %v", err)
	}

	info, statErr := os.Stat(cfg.SinkPath)
	if statErr != nil {
		t.Fatalf("expected sink created: %v", statErr)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty sink, got %d bytes", info.Size())
	}
}

func TestExporter_SQLiteEmptyTable(t *testing.T) {
	source := writeSQLiteTable(t, nil)
	cfg := sqliteConfig(t, source, 1000)

	result, err := export.NewExporter(exportsql.NewSource()).Export(context.Background(), cfg)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Rows != 0 || result.Batches != 0 {
		t.Fatalf("expected empty export, got %+v", result)
	}
	info, err := os.Stat(cfg.SinkPath)
	if err != nil || info.Size() != 0 {
		t.Fatalf("expected empty sink file, got %v %v", info, err)
	}
}
