// Package denorm encodes the denormalization contract: which fields are
// write-time snapshots and which must be looked up live. The store offers no
// joins, so several entities carry copies of fields owned elsewhere; those
// copies may drift and are never silently refreshed.
package denorm

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/garnizeh/dayhire/internal/apperror"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// FieldKind tags a denormalized field as a frozen capture or a live
// reference.
type FieldKind int

const (
	// Snapshot fields are captured once at write time and never
	// auto-refreshed.
	Snapshot FieldKind = iota
	// LiveRef fields are ids whose current value must be re-fetched from the
	// source entity.
	LiveRef
)

// Rule maps one denormalized field to its source of truth.
type Rule struct {
	Entity string
	Field  string
	Source string
	Kind   FieldKind
}

// Contract is the full snapshot table. Anything not listed here is owned by
// its own entity. Note the deliberate gaps: a job's wage is never snapshotted
// onto applications (earnings math must join through jobId), and
// Job.hirerRating is a self-denormalized capture that this layer never
// recomputes.
var Contract = []Rule{
	{Entity: "job", Field: "hirerName", Source: "user.name", Kind: Snapshot},
	{Entity: "job", Field: "hirerPic", Source: "user.photoURL", Kind: Snapshot},
	{Entity: "job", Field: "hirerRating", Source: "user.rating", Kind: Snapshot},
	{Entity: "application", Field: "workerName", Source: "user.name", Kind: Snapshot},
	{Entity: "application", Field: "workerPic", Source: "user.photoURL", Kind: Snapshot},
	{Entity: "application", Field: "jobTitle", Source: "job.title", Kind: Snapshot},
	{Entity: "application", Field: "jobId", Source: "job", Kind: LiveRef},
	{Entity: "application", Field: "workerId", Source: "user", Kind: LiveRef},
	{Entity: "application", Field: "hirerId", Source: "user", Kind: LiveRef},
}

// HydratedApplication is an application joined with the current Worker and
// Job records. Worker or Job is nil when the source entity no longer
// resolves.
type HydratedApplication struct {
	Application models.Application
	Worker      *models.User
	Job         *models.Job
}

// Wage returns the job's current wage, the value earnings computations must
// use. The snapshot-free lookup is deliberate: applications never carry a
// wage copy.
func (h *HydratedApplication) Wage() (float64, bool) {
	if h.Job == nil {
		return 0, false
	}
	return h.Job.Wage, true
}

// HydrateApplication fetches the live Worker and Job for an application
// concurrently and joins the results. Both fetches are independent and
// read-only; no shared state is mutated while either is in flight.
func HydrateApplication(ctx context.Context, repos *repository.Repository, app models.Application) (*HydratedApplication, error) {
	h := &HydratedApplication{Application: app}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker, err := repos.User.Get(gctx, app.WorkerID)
		if err != nil {
			return fmt.Errorf("hydrate worker %s: %w", app.WorkerID, err)
		}
		h.Worker = worker
		return nil
	})
	g.Go(func() error {
		job, err := repos.Job.Get(gctx, app.JobID)
		if err != nil {
			return fmt.Errorf("hydrate job %s: %w", app.JobID, err)
		}
		h.Job = job
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return h, nil
}

// ResyncWorkerSnapshot re-captures the worker identity snapshot on one
// application from the current User record. This is the only path that ever
// refreshes a snapshot, and only because the caller asked for it.
func ResyncWorkerSnapshot(ctx context.Context, repos *repository.Repository, appID string) error {
	app, err := repos.Application.Get(ctx, appID)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("application %s: %w", appID, apperror.ErrNotFound)
	}

	worker, err := repos.User.Get(ctx, app.WorkerID)
	if err != nil {
		return err
	}
	if worker == nil {
		return fmt.Errorf("worker %s: %w", app.WorkerID, apperror.ErrNotFound)
	}

	return repos.Application.ResyncWorkerSnapshot(ctx, appID, worker.Name, worker.PhotoURL)
}
