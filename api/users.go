package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/pkg/repository"
)

type UsersHandler struct {
	users   repository.UserRepo
	reviews repository.ReviewRepo
}

func NewUsersHandler(ur repository.UserRepo, rr repository.ReviewRepo) *UsersHandler {
	return &UsersHandler{users: ur, reviews: rr}
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name         *string  `json:"name"`
	PhotoURL     *string  `json:"photoURL"`
	Location     *string  `json:"location"`
	Skills       []string `json:"skills"`
	Experience   *string  `json:"experience"`
	About        *string  `json:"about"`
	Availability *string  `json:"availability"`
}

// UpdateMe edits the caller's profile. Changing name or photo does not touch
// the snapshots already frozen on jobs and applications.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.PhotoURL != nil {
		fields["photoURL"] = *req.PhotoURL
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Skills != nil {
		fields["skills"] = req.Skills
	}
	if req.Experience != nil {
		fields["experience"] = *req.Experience
	}
	if req.About != nil {
		fields["about"] = *req.About
	}
	if req.Availability != nil {
		fields["availability"] = *req.Availability
	}
	if len(fields) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.users.Update(r.Context(), id.UserID, fields); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Rating reports the live review aggregate for a user, bypassing any
// hirerRating snapshot.
func (h *UsersHandler) Rating(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	avg, count, err := h.reviews.AverageRating(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rating": avg, "count": count})
}
