// Package docstore implements the entity repositories on top of schema-bound
// collection gateways. Each repository adds named, intention-revealing
// queries and the cross-entity rules the store itself cannot enforce.
package docstore

import (
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/internal/schema"
	"github.com/garnizeh/dayhire/internal/store"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// Collection names, one per entity kind.
const (
	ColUsers         = "users"
	ColJobs          = "jobs"
	ColApplications  = "applications"
	ColNotifications = "notifications"
	ColMessages      = "messages"
	ColReviews       = "reviews"
	ColCredentials   = "credentials"
)

// New wires one repository per entity over a single store connection and
// returns the public bundle.
func New(st store.Store, reg *schema.Registry, logger *slog.Logger) *repository.Repository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	users := gateway.New[models.User](st, reg.MustGet(schema.User), ColUsers)
	jobs := gateway.New[models.Job](st, reg.MustGet(schema.Job), ColJobs)
	apps := gateway.New[models.Application](st, reg.MustGet(schema.Application), ColApplications)
	notifs := gateway.New[models.Notification](st, reg.MustGet(schema.Notification), ColNotifications)
	msgs := gateway.New[models.Message](st, reg.MustGet(schema.Message), ColMessages)
	reviews := gateway.New[models.Review](st, reg.MustGet(schema.Review), ColReviews)
	creds := gateway.New[models.Credential](st, reg.MustGet(schema.Credential), ColCredentials)

	return &repository.Repository{
		User:         &Users{gw: users},
		Job:          &Jobs{gw: jobs},
		Application:  &Applications{gw: apps, jobs: jobs, users: users, logger: logger},
		Notification: &Notifications{gw: notifs, logger: logger},
		Message:      &Messages{gw: msgs, logger: logger},
		Review:       &Reviews{gw: reviews},
		Credential:   &Credentials{gw: creds},
	}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func values[T any](items []gateway.Item[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value)
	}
	return out
}
