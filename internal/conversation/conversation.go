// Package conversation derives per-counterparty threads from the flat message
// log. Nothing here does I/O and nothing is persisted: a conversation's read
// state is implicit in its constituent messages.
package conversation

import (
	"sort"

	"github.com/garnizeh/dayhire/pkg/models"
)

// Derive groups the user's messages into one conversation per distinct
// counterparty in a single pass. It does not trust input order: the last
// message of each group is tracked as the maximum createdAt seen, so an
// unsorted or partially ordered input still yields the correct lastMessage.
// UnreadCount counts messages addressed to the user that are still unread.
// The output is deterministically ordered by last-message time descending,
// counterparty id ascending on ties; re-deriving after one new message only
// moves that one group.
func Derive(currentUser string, msgs []models.Message) []models.Conversation {
	groups := make(map[string]*models.Conversation)

	for _, m := range msgs {
		counterparty := m.SenderID
		if m.SenderID == currentUser {
			counterparty = m.ReceiverID
		}

		g, ok := groups[counterparty]
		if !ok {
			g = &models.Conversation{CounterpartyID: counterparty, LastMessage: m}
			groups[counterparty] = g
		} else if m.Created >= g.LastMessage.Created {
			// >= keeps the later-arriving message on equal timestamps,
			// matching the store's insertion-order tiebreak for sorted input
			g.LastMessage = m
		}

		g.MessageCount++
		if m.ReceiverID == currentUser && !m.Read {
			g.UnreadCount++
		}
	}

	out := make([]models.Conversation, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastMessage.Created != out[j].LastMessage.Created {
			return out[i].LastMessage.Created > out[j].LastMessage.Created
		}
		return out[i].CounterpartyID < out[j].CounterpartyID
	})

	return out
}

// TotalUnread sums unread counts across conversations, for badge display.
func TotalUnread(convs []models.Conversation) int {
	total := 0
	for _, c := range convs {
		total += c.UnreadCount
	}
	return total
}
