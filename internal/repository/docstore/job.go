package docstore

import (
	"context"
	"fmt"

	"github.com/garnizeh/dayhire/internal/apperror"
	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

type Jobs struct {
	gw *gateway.Gateway[models.Job]
}

var _ repository.JobRepo = (*Jobs)(nil)

func (r *Jobs) Get(ctx context.Context, id string) (*models.Job, error) {
	return r.gw.Get(ctx, id)
}

func (r *Jobs) GetAll(ctx context.Context) ([]models.Job, error) {
	items, err := r.gw.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return values(items), nil
}

func (r *Jobs) GetByHirer(ctx context.Context, hirerID string) ([]models.Job, error) {
	items, err := r.gw.FindEqual(ctx, "hirerId", hirerID)
	if err != nil {
		return nil, err
	}
	return values(items), nil
}

// Create stamps status open and createdAt. The hirer snapshot fields
// (hirerName, hirerPic, hirerRating) are copied verbatim from the caller; no
// lookup happens here, keeping the write O(1). The snapshot may drift from
// the User record and is never auto-refreshed.
func (r *Jobs) Create(ctx context.Context, j *models.Job) (string, error) {
	rec := *j
	rec.ID = ""
	rec.Status = models.JobOpen
	rec.ApplicantsCount = 0
	rec.Created = now()

	doc, err := gateway.ToDocument(&rec)
	if err != nil {
		return "", err
	}

	return r.gw.Create(ctx, doc)
}

// UpdateStatus applies a workflow transition. Disallowed transitions are
// rejected and leave the stored status untouched. The write itself is
// last-writer-wins: concurrent callers are not detected.
func (r *Jobs) UpdateStatus(ctx context.Context, id string, status models.JobStatus) error {
	current, err := r.gw.Get(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("job %s: %w", id, apperror.ErrNotFound)
	}
	if !current.Status.CanTransitionTo(status) {
		return apperror.Validation("job", "status",
			fmt.Sprintf("cannot transition from %s to %s", current.Status, status))
	}

	return r.gw.UpdateFields(ctx, id, map[string]any{"status": string(status)})
}
