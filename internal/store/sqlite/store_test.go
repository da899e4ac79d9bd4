package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/goleak"

	dbpkg "github.com/garnizeh/dayhire/internal/db"
	"github.com/garnizeh/dayhire/internal/store"
	sqlitestore "github.com/garnizeh/dayhire/internal/store/sqlite"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupStore(t *testing.T) (*sqlitestore.Store, func()) {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := dbpkg.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			UNIQUE(collection, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(ctx, s); err != nil {
			d.Close()
			t.Fatalf("failed to exec schema: %v", err)
		}
	}

	st := sqlitestore.New(d, nil)
	return st, func() { d.Close() }
}

func TestDocumentCRUD(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	// Non-existing id should return nil, nil
	got, err := st.Get(ctx, "jobs", "missing")
	if err != nil {
		t.Fatalf("Get missing error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing doc got: %#v", got)
	}

	id, err := st.Create(ctx, "jobs", "", map[string]any{"title": "Unload truck", "wage": 800.0})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected store-assigned id")
	}

	got, err = st.Get(ctx, "jobs", id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil || got["title"] != "Unload truck" {
		t.Fatalf("Get wrong result: %#v", got)
	}
	if _, ok := got["id"]; ok {
		t.Fatalf("stored data must not contain the id field: %#v", got)
	}

	if err := st.UpdateFields(ctx, "jobs", id, map[string]any{"wage": 900.0}); err != nil {
		t.Fatalf("UpdateFields error: %v", err)
	}
	got, err = st.Get(ctx, "jobs", id)
	if err != nil {
		t.Fatalf("Get after update error: %v", err)
	}
	if got["wage"].(float64) != 900.0 {
		t.Fatalf("expected wage 900 got %v", got["wage"])
	}
	if got["title"] != "Unload truck" {
		t.Fatalf("untouched field changed: %#v", got)
	}

	if err := st.Delete(ctx, "jobs", id); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	got, err = st.Get(ctx, "jobs", id)
	if err != nil {
		t.Fatalf("Get after delete error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete got: %#v", got)
	}

	// deleting an absent doc is not an error
	if err := st.Delete(ctx, "jobs", id); err != nil {
		t.Fatalf("Delete absent error: %v", err)
	}
}

func TestCreateWithCallerID(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.Create(ctx, "users", "uid-1", map[string]any{"name": "Alice"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != "uid-1" {
		t.Fatalf("expected caller id preserved, got %q", id)
	}

	// duplicate id in the same collection must fail
	if _, err := st.Create(ctx, "users", "uid-1", map[string]any{"name": "Bob"}); err == nil {
		t.Fatalf("expected error on duplicate id")
	}

	// same id in another collection is fine
	if _, err := st.Create(ctx, "credentials", "uid-1", map[string]any{"email": "a@a.com"}); err != nil {
		t.Fatalf("Create in other collection error: %v", err)
	}
}

func TestGetAllInsertionOrder(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := st.Create(ctx, "messages", "", map[string]any{"text": fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	docs, err := st.GetAll(ctx, "messages")
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs got %d", len(docs))
	}
	for i, doc := range docs {
		if doc.Data["text"] != fmt.Sprintf("m%d", i) {
			t.Fatalf("docs out of insertion order: %#v", docs)
		}
		if i > 0 && docs[i-1].Seq >= doc.Seq {
			t.Fatalf("seq not strictly increasing: %#v", docs)
		}
	}
}

func TestFindEqual(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := st.Create(ctx, "applications", "", map[string]any{"jobId": "j1", "workerId": "w1"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := st.Create(ctx, "applications", "", map[string]any{"jobId": "j2", "workerId": "w1"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := st.Create(ctx, "applications", "", map[string]any{"jobId": "j1", "workerId": "w2"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	docs, err := st.FindEqual(ctx, "applications", "jobId", "j1")
	if err != nil {
		t.Fatalf("FindEqual error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs for j1 got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.Data["jobId"] != "j1" {
			t.Fatalf("FindEqual returned wrong doc: %#v", doc)
		}
	}

	docs, err = st.FindEqual(ctx, "applications", "jobId", "j9")
	if err != nil {
		t.Fatalf("FindEqual no match error: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no docs got %d", len(docs))
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := st.UpdateFields(ctx, "jobs", "missing", map[string]any{"wage": 900.0})
	if !errors.Is(err, store.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument got: %v", err)
	}
}

func TestUpdateFieldsChecked(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.Create(ctx, "applications", "", map[string]any{"status": "pending", "version": 1})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	ok, err := st.UpdateFieldsChecked(ctx, "applications", id, map[string]any{"status": "accepted", "version": 2}, "version", 1)
	if err != nil {
		t.Fatalf("UpdateFieldsChecked error: %v", err)
	}
	if !ok {
		t.Fatalf("expected guard to match")
	}

	got, err := st.Get(ctx, "applications", id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got["status"] != "accepted" || got["version"].(float64) != 2 {
		t.Fatalf("checked update not applied: %#v", got)
	}

	// stale guard: no write, no error
	ok, err = st.UpdateFieldsChecked(ctx, "applications", id, map[string]any{"status": "rejected", "version": 2}, "version", 1)
	if err != nil {
		t.Fatalf("stale UpdateFieldsChecked error: %v", err)
	}
	if ok {
		t.Fatalf("expected guard mismatch")
	}
	got, err = st.Get(ctx, "applications", id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got["status"] != "accepted" {
		t.Fatalf("stale write must not be applied: %#v", got)
	}

	// missing document is an error, not a mismatch
	_, err = st.UpdateFieldsChecked(ctx, "applications", "missing", map[string]any{"version": 2}, "version", 1)
	if !errors.Is(err, store.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument got: %v", err)
	}
}
