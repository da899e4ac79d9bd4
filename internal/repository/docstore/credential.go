package docstore

import (
	"context"

	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// Credentials backs the auth boundary's sign-in flow. The hash never leaves
// the api package.
type Credentials struct {
	gw *gateway.Gateway[models.Credential]
}

var _ repository.CredentialRepo = (*Credentials)(nil)

func (r *Credentials) Create(ctx context.Context, c *models.Credential) (string, error) {
	rec := *c
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

func (r *Credentials) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	items, err := r.gw.FindEqual(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	return &items[0].Value, nil
}
