package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/dayhire/internal/apperror"
	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// Applications enforces the cross-entity rules the store cannot: the
// referenced job must exist at creation time and the application's hirerId
// must match the job's.
type Applications struct {
	gw     *gateway.Gateway[models.Application]
	jobs   *gateway.Gateway[models.Job]
	users  *gateway.Gateway[models.User]
	logger *slog.Logger
}

var _ repository.ApplicationRepo = (*Applications)(nil)

func (r *Applications) Get(ctx context.Context, id string) (*models.Application, error) {
	return r.gw.Get(ctx, id)
}

func (r *Applications) GetByHirer(ctx context.Context, hirerID string) ([]models.Application, error) {
	items, err := r.gw.FindEqual(ctx, "hirerId", hirerID)
	if err != nil {
		return nil, err
	}
	return values(items), nil
}

func (r *Applications) GetByWorker(ctx context.Context, workerID string) ([]models.Application, error) {
	items, err := r.gw.FindEqual(ctx, "workerId", workerID)
	if err != nil {
		return nil, err
	}
	return values(items), nil
}

func (r *Applications) GetByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	items, err := r.gw.FindEqual(ctx, "jobId", jobID)
	if err != nil {
		return nil, err
	}
	return values(items), nil
}

// Create resolves the referenced job, captures the worker identity and job
// title snapshots at the moment of submission, and persists the application
// with status pending. The follow-up applicantsCount bump on the job is a
// second independent write: it can fail or race without rolling back the
// application (dual-write, last-writer-wins).
func (r *Applications) Create(ctx context.Context, a *models.Application) (string, error) {
	job, err := r.jobs.Get(ctx, a.JobID)
	if err != nil {
		return "", err
	}
	if job == nil {
		return "", apperror.Validation("application", "jobId", "referenced job does not exist")
	}
	if a.HirerID != "" && a.HirerID != job.HirerID {
		return "", apperror.Validation("application", "hirerId", "does not match the job's hirer")
	}

	rec := *a
	rec.ID = ""
	rec.HirerID = job.HirerID
	rec.JobTitle = job.Title
	rec.Status = models.ApplicationPending
	rec.Version = 1
	rec.Created = now()

	// worker identity snapshot: prefer the live record at submission time,
	// fall back to the caller-supplied values
	if worker, err := r.users.Get(ctx, rec.WorkerID); err != nil {
		return "", err
	} else if worker != nil {
		rec.WorkerName = worker.Name
		rec.WorkerPic = worker.PhotoURL
	}

	doc, err := gateway.ToDocument(&rec)
	if err != nil {
		return "", err
	}

	id, err := r.gw.Create(ctx, doc)
	if err != nil {
		return "", err
	}

	if err := r.jobs.UpdateFields(ctx, job.ID, map[string]any{"applicantsCount": job.ApplicantsCount + 1}); err != nil {
		r.logger.Warn("applicants count bump failed", "job_id", job.ID, "err", err)
	}

	return id, nil
}

// UpdateStatus applies a workflow transition under the store's default
// last-writer-wins semantics: two concurrent callers both succeed and the
// later write silently wins. Disallowed transitions (rejected and completed
// are terminal) fail and leave the stored status untouched.
func (r *Applications) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	current, err := r.loadForTransition(ctx, id, status)
	if err != nil {
		return err
	}

	return r.gw.UpdateFields(ctx, id, map[string]any{
		"status":  string(status),
		"version": current.Version + 1,
	})
}

// UpdateStatusChecked is the opt-in optimistic variant: the transition is
// applied only when the stored version still equals expectedVersion,
// otherwise a ConflictError reports the interleaving writer.
func (r *Applications) UpdateStatusChecked(ctx context.Context, id string, status models.ApplicationStatus, expectedVersion int64) error {
	if _, err := r.loadForTransition(ctx, id, status); err != nil {
		return err
	}

	ok, err := r.gw.UpdateFieldsChecked(ctx, id, map[string]any{
		"status":  string(status),
		"version": expectedVersion + 1,
	}, "version", expectedVersion)
	if err != nil {
		return err
	}
	if !ok {
		actual := int64(0)
		if cur, err := r.gw.Get(ctx, id); err == nil && cur != nil {
			actual = cur.Version
		}
		return &apperror.ConflictError{Collection: ColApplications, ID: id, Expected: expectedVersion, Actual: actual}
	}

	return nil
}

// Delete withdraws an application. A completed application cannot be
// withdrawn; ownership (only the applying worker may withdraw) is checked by
// the caller, which knows the authenticated identity.
func (r *Applications) Delete(ctx context.Context, id string) error {
	current, err := r.gw.Get(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("application %s: %w", id, apperror.ErrNotFound)
	}
	if current.Status == models.ApplicationCompleted {
		return apperror.Forbidden("completed application cannot be withdrawn")
	}

	return r.gw.Delete(ctx, id)
}

// ResyncWorkerSnapshot overwrites the frozen worker identity fields with the
// supplied current values. Called only through the explicit resync path.
func (r *Applications) ResyncWorkerSnapshot(ctx context.Context, id, workerName, workerPic string) error {
	return r.gw.UpdateFields(ctx, id, map[string]any{
		"workerName": workerName,
		"workerPic":  workerPic,
	})
}

func (r *Applications) loadForTransition(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	current, err := r.gw.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("application %s: %w", id, apperror.ErrNotFound)
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, apperror.Validation("application", "status",
			fmt.Sprintf("cannot transition from %s to %s", current.Status, status))
	}

	return current, nil
}
