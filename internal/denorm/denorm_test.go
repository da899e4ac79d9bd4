package denorm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/goleak"

	"github.com/garnizeh/dayhire/internal/apperror"
	dbpkg "github.com/garnizeh/dayhire/internal/db"
	"github.com/garnizeh/dayhire/internal/denorm"
	"github.com/garnizeh/dayhire/internal/repository/docstore"
	"github.com/garnizeh/dayhire/internal/schema"
	sqlitestore "github.com/garnizeh/dayhire/internal/store/sqlite"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupRepos(t *testing.T) (*repository.Repository, func()) {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := dbpkg.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	schemaSQL := `CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		UNIQUE(collection, id)
	);`
	if _, err := d.Exec(ctx, schemaSQL); err != nil {
		d.Close()
		t.Fatalf("failed to exec schema: %v", err)
	}

	reg, err := schema.NewRegistry()
	if err != nil {
		d.Close()
		t.Fatalf("failed to load schemas: %v", err)
	}

	st := sqlitestore.New(d, nil)
	return docstore.New(st, reg, nil), func() { st.Close() }
}

func seedApplication(t *testing.T, repos *repository.Repository) (appID, jobID string) {
	t.Helper()
	ctx := context.Background()

	if err := repos.User.Create(ctx, "h1", &models.User{Name: "Hirer", Role: models.RoleHire}); err != nil {
		t.Fatalf("create hirer: %v", err)
	}
	if err := repos.User.Create(ctx, "w1", &models.User{Name: "Ravi", Role: models.RoleWorker, PhotoURL: "http://pics/ravi.png"}); err != nil {
		t.Fatalf("create worker: %v", err)
	}

	jobID, err := repos.Job.Create(ctx, &models.Job{
		Title: "Unload truck", Category: "loading", Wage: 800, Location: "market",
		HirerID: "h1", HirerName: "Hirer",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	appID, err = repos.Application.Create(ctx, &models.Application{JobID: jobID, WorkerID: "w1"})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	return appID, jobID
}

func TestHydrateApplication(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()
	ctx := context.Background()
	appID, jobID := seedApplication(t, repos)

	app, err := repos.Application.Get(ctx, appID)
	if err != nil {
		t.Fatalf("get application: %v", err)
	}

	h, err := denorm.HydrateApplication(ctx, repos, *app)
	if err != nil {
		t.Fatalf("HydrateApplication: %v", err)
	}
	if h.Worker == nil || h.Worker.ID != "w1" {
		t.Fatalf("worker not resolved: %#v", h.Worker)
	}
	if h.Job == nil || h.Job.ID != jobID {
		t.Fatalf("job not resolved: %#v", h.Job)
	}

	wage, ok := h.Wage()
	if !ok || wage != 800 {
		t.Fatalf("expected wage 800 got %v ok=%v", wage, ok)
	}
}

func TestHydrateReflectsLiveSource(t *testing.T) {
	// hydration reads the current source records; the frozen snapshot on the
	// application must not change
	repos, cleanup := setupRepos(t)
	defer cleanup()
	ctx := context.Background()
	appID, jobID := seedApplication(t, repos)

	app, err := repos.Application.Get(ctx, appID)
	if err != nil {
		t.Fatalf("get application: %v", err)
	}

	if err := repos.User.Update(ctx, "w1", map[string]any{"name": "Ravi Kumar"}); err != nil {
		t.Fatalf("update worker: %v", err)
	}

	h, err := denorm.HydrateApplication(ctx, repos, *app)
	if err != nil {
		t.Fatalf("HydrateApplication: %v", err)
	}
	if h.Worker.Name != "Ravi Kumar" {
		t.Fatalf("live worker lookup stale: %#v", h.Worker)
	}
	if h.Application.WorkerName != "Ravi" {
		t.Fatalf("snapshot must stay frozen: %#v", h.Application)
	}
	if h.Job == nil || h.Job.ID != jobID {
		t.Fatalf("job not resolved: %#v", h.Job)
	}
}

func TestHydrateDanglingReferences(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()
	ctx := context.Background()

	// application pointing at entities that no longer resolve
	app := models.Application{
		ID: "a1", JobID: "gone-job", WorkerID: "gone-worker",
		WorkerName: "Ghost", JobTitle: "Gone", Status: models.ApplicationPending, Version: 1,
	}

	h, err := denorm.HydrateApplication(ctx, repos, app)
	if err != nil {
		t.Fatalf("HydrateApplication: %v", err)
	}
	if h.Worker != nil || h.Job != nil {
		t.Fatalf("dangling refs must hydrate to nil: %#v", h)
	}
	if _, ok := h.Wage(); ok {
		t.Fatalf("wage must be unavailable without a job")
	}
}

func TestResyncWorkerSnapshot(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()
	ctx := context.Background()
	appID, _ := seedApplication(t, repos)

	if err := repos.User.Update(ctx, "w1", map[string]any{
		"name": "Ravi Kumar", "photoURL": "http://pics/ravi2.png",
	}); err != nil {
		t.Fatalf("update worker: %v", err)
	}

	if err := denorm.ResyncWorkerSnapshot(ctx, repos, appID); err != nil {
		t.Fatalf("ResyncWorkerSnapshot: %v", err)
	}

	app, err := repos.Application.Get(ctx, appID)
	if err != nil {
		t.Fatalf("get application: %v", err)
	}
	if app.WorkerName != "Ravi Kumar" || app.WorkerPic != "http://pics/ravi2.png" {
		t.Fatalf("snapshot not refreshed: %#v", app)
	}
}

func TestResyncUnknownApplication(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	err := denorm.ResyncWorkerSnapshot(context.Background(), repos, "missing")
	if err == nil {
		t.Fatalf("expected error for unknown application")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestContractCoversSnapshotFields(t *testing.T) {
	// every snapshot the repositories write must be declared in the table
	want := map[string]denorm.FieldKind{
		"job.hirerName":          denorm.Snapshot,
		"job.hirerPic":           denorm.Snapshot,
		"job.hirerRating":        denorm.Snapshot,
		"application.workerName": denorm.Snapshot,
		"application.workerPic":  denorm.Snapshot,
		"application.jobTitle":   denorm.Snapshot,
		"application.jobId":      denorm.LiveRef,
	}

	got := make(map[string]denorm.FieldKind, len(denorm.Contract))
	for _, r := range denorm.Contract {
		got[r.Entity+"."+r.Field] = r.Kind
	}
	for key, kind := range want {
		k, ok := got[key]
		if !ok {
			t.Fatalf("contract missing %s", key)
		}
		if k != kind {
			t.Fatalf("%s: wrong kind %v", key, k)
		}
	}
}
