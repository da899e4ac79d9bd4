package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/internal/conversation"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

type MessagesHandler struct {
	messages      repository.MessageRepo
	notifications repository.NotificationRepo
}

func NewMessagesHandler(mr repository.MessageRepo, nr repository.NotificationRepo) *MessagesHandler {
	return &MessagesHandler{messages: mr, notifications: nr}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

type sendMessageResponse struct {
	ID      string `json:"id"`
	Warning string `json:"warning,omitempty"`
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	msg := models.Message{
		SenderID:   id.UserID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
	}

	msgID, err := h.messages.Send(ctx, &msg)
	if err != nil {
		writeError(w, err)
		return
	}

	warning := ""
	notif := models.Notification{
		UserID:  req.ReceiverID,
		Type:    models.NotificationMessage,
		Title:   "New message",
		Message: id.Name + " sent you a message",
		Data:    map[string]any{"senderId": id.UserID},
	}
	if _, err := h.notifications.Create(ctx, &notif); err != nil {
		logger.Warn("message notification failed", "message_id", msgID, "err", err)
		warning = "message sent but the receiver was not notified"
	}

	writeJSON(w, http.StatusCreated, sendMessageResponse{ID: msgID, Warning: warning})
}

// List returns the caller's full flat message log, chronologically ordered.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	msgs, err := h.messages.GetAllForUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Conversations derives the thread view from the flat log on every call;
// nothing is cached or persisted.
func (h *MessagesHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	msgs, err := h.messages.GetAllForUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	convs := conversation.Derive(id.UserID, msgs)
	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": convs,
		"totalUnread":   conversation.TotalUnread(convs),
	})
}

// MarkConversationRead batch-flips the unread messages from one counterparty.
// No atomicity: the next derive reflects whatever subset succeeded.
func (h *MessagesHandler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	counterparty := mux.Vars(r)["counterpartyId"]

	if err := h.messages.MarkConversationRead(r.Context(), id.UserID, counterparty); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "conversation read"})
}
