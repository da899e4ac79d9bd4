package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

type ReviewsHandler struct {
	reviews       repository.ReviewRepo
	notifications repository.NotificationRepo
}

func NewReviewsHandler(rr repository.ReviewRepo, nr repository.NotificationRepo) *ReviewsHandler {
	return &ReviewsHandler{reviews: rr, notifications: nr}
}

type createReviewRequest struct {
	JobID    string  `json:"jobId"`
	TargetID string  `json:"targetId"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	review := models.Review{
		JobID:      req.JobID,
		ReviewerID: id.UserID,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	reviewID, err := h.reviews.Create(ctx, &review)
	if err != nil {
		writeError(w, err)
		return
	}
	review.ID = reviewID

	warning := ""
	notif := models.Notification{
		UserID:  req.TargetID,
		Type:    models.NotificationReview,
		Title:   "New review",
		Message: id.Name + " left you a review",
		Data:    map[string]any{"reviewId": reviewID, "jobId": req.JobID},
	}
	if _, err := h.notifications.Create(ctx, &notif); err != nil {
		logger.Warn("review notification failed", "review_id", reviewID, "err", err)
		warning = "review saved but the target was not notified"
	}

	writeJSON(w, http.StatusCreated, map[string]any{"review": review, "warning": warning})
}

func (h *ReviewsHandler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]

	reviews, err := h.reviews.GetByTarget(r.Context(), targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
