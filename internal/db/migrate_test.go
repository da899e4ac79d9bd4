package db_test

import (
	"context"
	"fmt"
	"testing"

	migrations "github.com/garnizeh/dayhire/db"
	dbpkg "github.com/garnizeh/dayhire/internal/db"
)

func openDB(t *testing.T) (*dbpkg.DB, func()) {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := dbpkg.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	return d, func() { d.Close() }
}

func TestMigrateCreatesDocumentsTable(t *testing.T) {
	d, cleanup := openDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if _, err := d.Exec(ctx, `INSERT INTO documents (collection, id, data) VALUES ('jobs', 'j1', '{}')`); err != nil {
		t.Fatalf("documents table not usable: %v", err)
	}

	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected recorded migrations")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	d, cleanup := openDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}

	var before int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&before); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var after int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&after); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if before != after {
		t.Fatalf("second run must not re-apply migrations: %d != %d", before, after)
	}
}

func TestMigrateBackfillsLegacyRows(t *testing.T) {
	d, cleanup := openDB(t)
	defer cleanup()
	ctx := context.Background()

	// simulate a database stamped before the backfill migration existed
	stmts := []string{
		`CREATE TABLE schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`,
		`INSERT INTO schema_migrations (version, applied) VALUES ('0001_init', strftime('%s','now'))`,
		`CREATE TABLE documents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			UNIQUE(collection, id)
		)`,
		`INSERT INTO documents (collection, id, data) VALUES ('messages', 'm1', '{"senderId":"a","receiverId":"b","text":"hi","createdAt":1}')`,
		`INSERT INTO documents (collection, id, data) VALUES ('jobs', 'j1', '{"title":"x","category":"c","wage":100,"location":"l","status":"open","hirerId":"h","hirerName":"H","createdAt":1}')`,
		`INSERT INTO documents (collection, id, data) VALUES ('applications', 'a1', '{"jobId":"j1","hirerId":"h","workerId":"w","workerName":"W","jobTitle":"x","status":"pending","createdAt":1}')`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(ctx, s); err != nil {
			t.Fatalf("seed legacy db: %v", err)
		}
	}

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	checks := []struct {
		id   string
		expr string
		want string
	}{
		{"m1", `json_extract(data, '$.read')`, "0"},
		{"j1", `json_extract(data, '$.applicantsCount')`, "0"},
		{"a1", `json_extract(data, '$.version')`, "1"},
	}
	for _, c := range checks {
		var got string
		q := fmt.Sprintf(`SELECT %s FROM documents WHERE id = ?`, c.expr)
		if err := d.QueryRow(ctx, q, c.id).Scan(&got); err != nil {
			t.Fatalf("scan %s: %v", c.id, err)
		}
		if got != c.want {
			t.Fatalf("%s: expected %s got %s", c.id, c.want, got)
		}
	}
}
