package docstore

import (
	"context"
	"sort"

	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// Reviews is append-only.
type Reviews struct {
	gw *gateway.Gateway[models.Review]
}

var _ repository.ReviewRepo = (*Reviews)(nil)

func (r *Reviews) Create(ctx context.Context, rv *models.Review) (string, error) {
	rec := *rv
	rec.ID = ""
	if rec.Created == 0 {
		rec.Created = now()
	}

	doc, err := gateway.ToDocument(&rec)
	if err != nil {
		return "", err
	}

	return r.gw.Create(ctx, doc)
}

func (r *Reviews) GetByTarget(ctx context.Context, targetID string) ([]models.Review, error) {
	items, err := r.gw.FindEqual(ctx, "targetId", targetID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Value.Created > items[j].Value.Created
	})

	return values(items), nil
}

// AverageRating computes the live mean rating for a target from stored
// reviews. It is never written back into the Job.hirerRating snapshot; that
// copy stays a write-time capture by contract.
func (r *Reviews) AverageRating(ctx context.Context, targetID string) (float64, int, error) {
	items, err := r.gw.FindEqual(ctx, "targetId", targetID)
	if err != nil {
		return 0, 0, err
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	var sum float64
	for _, it := range items {
		sum += it.Value.Rating
	}

	return sum / float64(len(items)), len(items), nil
}
