package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/garnizeh/dayhire/internal/gateway"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// Notifications are created by whichever action produces a side effect for
// another user, mutated only by read-state toggles, never deleted.
type Notifications struct {
	gw     *gateway.Gateway[models.Notification]
	logger *slog.Logger
}

var _ repository.NotificationRepo = (*Notifications)(nil)

func (r *Notifications) Create(ctx context.Context, n *models.Notification) (string, error) {
	rec := *n
	rec.ID = ""
	rec.Read = false
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	if rec.Created == 0 {
		rec.Created = now()
	}

	doc, err := gateway.ToDocument(&rec)
	if err != nil {
		return "", err
	}

	return r.gw.Create(ctx, doc)
}

// GetByUser returns the user's notifications newest first.
func (r *Notifications) GetByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	items, err := r.gw.FindEqual(ctx, "userId", userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Value.Created != items[j].Value.Created {
			return items[i].Value.Created > items[j].Value.Created
		}
		return items[i].Seq > items[j].Seq
	})

	return values(items), nil
}

func (r *Notifications) MarkAsRead(ctx context.Context, id string) error {
	return r.gw.UpdateFields(ctx, id, map[string]any{"read": true})
}

// MarkAllRead flips read on every unread notification for the user. The
// batch is best-effort: a failing update does not stop the rest, so a
// partial failure leaves some notifications read and others not. All
// failures are reported joined.
func (r *Notifications) MarkAllRead(ctx context.Context, userID string) error {
	items, err := r.gw.FindEqual(ctx, "userId", userID)
	if err != nil {
		return err
	}

	var errs []error
	for _, it := range items {
		if it.Value.Read {
			continue
		}
		if err := r.gw.UpdateFields(ctx, it.Value.ID, map[string]any{"read": true}); err != nil {
			r.logger.Warn("mark notification read failed", "notification_id", it.Value.ID, "err", err)
			errs = append(errs, fmt.Errorf("notification %s: %w", it.Value.ID, err))
		}
	}

	return errors.Join(errs...)
}
