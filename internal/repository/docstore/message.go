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

// Messages is the flat, unordered message log. No conversation entity is
// persisted; threads are always derived from GetAllForUser's result.
type Messages struct {
	gw     *gateway.Gateway[models.Message]
	logger *slog.Logger
}

var _ repository.MessageRepo = (*Messages)(nil)

func (r *Messages) Send(ctx context.Context, m *models.Message) (string, error) {
	rec := *m
	rec.ID = ""
	rec.Read = false
	if rec.Created == 0 {
		rec.Created = now()
	}

	doc, err := gateway.ToDocument(&rec)
	if err != nil {
		return "", err
	}

	return r.gw.Create(ctx, doc)
}

// GetAllForUser returns every message where the user is sender or receiver in
// a strict chronological total order by createdAt, ties broken by the store's
// insertion sequence. Conversation derivation depends on this ordering: a
// partially ordered result silently corrupts last-message and unread
// computation downstream.
func (r *Messages) GetAllForUser(ctx context.Context, userID string) ([]models.Message, error) {
	sent, err := r.gw.FindEqual(ctx, "senderId", userID)
	if err != nil {
		return nil, err
	}
	received, err := r.gw.FindEqual(ctx, "receiverId", userID)
	if err != nil {
		return nil, err
	}

	// a self-addressed message shows up in both result sets
	merged := make([]gateway.Item[models.Message], 0, len(sent)+len(received))
	merged = append(merged, sent...)
	for _, it := range received {
		if it.Value.SenderID == userID {
			continue
		}
		merged = append(merged, it)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Value.Created != merged[j].Value.Created {
			return merged[i].Value.Created < merged[j].Value.Created
		}
		return merged[i].Seq < merged[j].Seq
	})

	return values(merged), nil
}

// MarkConversationRead flips read on every unread message sent by
// counterpartyID to userID. There is no atomic multi-message update: each
// flip succeeds or fails on its own and failures are reported joined.
func (r *Messages) MarkConversationRead(ctx context.Context, userID, counterpartyID string) error {
	received, err := r.gw.FindEqual(ctx, "receiverId", userID)
	if err != nil {
		return err
	}

	var errs []error
	for _, it := range received {
		m := it.Value
		if m.SenderID != counterpartyID || m.Read {
			continue
		}
		if err := r.gw.UpdateFields(ctx, m.ID, map[string]any{"read": true}); err != nil {
			r.logger.Warn("mark message read failed", "message_id", m.ID, "err", err)
			errs = append(errs, fmt.Errorf("message %s: %w", m.ID, err))
		}
	}

	return errors.Join(errs...)
}
