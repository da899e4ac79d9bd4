package docstore

import (
	"context"

	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// Users stores one record per user, keyed by the auth boundary's opaque id.
// Users are never hard-deleted.
type Users struct {
	gw *gateway.Gateway[models.User]
}

var _ repository.UserRepo = (*Users)(nil)

func (r *Users) Get(ctx context.Context, id string) (*models.User, error) {
	return r.gw.Get(ctx, id)
}

// Create stores the user under the supplied id (first sign-in). The record's
// own ID field is ignored; the key comes from the caller.
func (r *Users) Create(ctx context.Context, id string, u *models.User) error {
	rec := *u
	rec.ID = ""
	if rec.Created == 0 {
		rec.Created = now()
	}

	doc, err := gateway.ToDocument(&rec)
	if err != nil {
		return err
	}

	_, err = r.gw.CreateWithID(ctx, id, doc)
	return err
}

func (r *Users) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.gw.UpdateFields(ctx, id, fields)
}
