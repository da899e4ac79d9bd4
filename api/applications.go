package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/internal/denorm"
	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

type ApplicationsHandler struct {
	repos *repository.Repository
}

func NewApplicationsHandler(repos *repository.Repository) *ApplicationsHandler {
	return &ApplicationsHandler{repos: repos}
}

type applyRequest struct {
	JobID        string   `json:"jobId"`
	CoverLetter  string   `json:"coverLetter"`
	ExpectedWage float64  `json:"expectedWage"`
	Availability string   `json:"availability"`
	Skills       []string `json:"skills"`
}

type applicationResponse struct {
	Application *models.Application `json:"application"`
	Warning     string              `json:"warning,omitempty"`
}

// Create submits an application. The follow-up notification to the hirer is
// an independent second write: its failure does not undo the application and
// is reported as a warning instead.
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if id.Role != models.RoleWorker {
		http.Error(w, "Only workers can apply", http.StatusForbidden)
		return
	}

	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	app := models.Application{
		JobID:        req.JobID,
		WorkerID:     id.UserID,
		WorkerName:   id.Name,
		WorkerPic:    id.PhotoURL,
		CoverLetter:  req.CoverLetter,
		ExpectedWage: req.ExpectedWage,
		Availability: req.Availability,
		Skills:       req.Skills,
	}

	appID, err := h.repos.Application.Create(ctx, &app)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.repos.Application.Get(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}

	warning := ""
	notif := models.Notification{
		UserID:  created.HirerID,
		Type:    models.NotificationApplication,
		Title:   "New application",
		Message: created.WorkerName + " applied to " + created.JobTitle,
		Data:    map[string]any{"applicationId": appID, "jobId": created.JobID},
	}
	if _, err := h.repos.Notification.Create(ctx, &notif); err != nil {
		logger.Warn("application notification failed", "application_id", appID, "err", err)
		warning = "application saved but the hirer was not notified"
	}

	writeJSON(w, http.StatusCreated, applicationResponse{Application: created, Warning: warning})
}

func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var (
		apps []models.Application
		err  error
	)
	if id.Role == models.RoleHire {
		apps, err = h.repos.Application.GetByHirer(r.Context(), id.UserID)
	} else {
		apps, err = h.repos.Application.GetByWorker(r.Context(), id.UserID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// Get returns one application; ?hydrate=1 joins the live worker and job
// records for callers that must not trust snapshots (earnings, reports).
func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	appID := mux.Vars(r)["id"]

	ctx := r.Context()
	app, err := h.repos.Application.Get(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	if app == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if app.WorkerID != id.UserID && app.HirerID != id.UserID && id.Role != models.RoleAdmin {
		http.Error(w, "Not your application", http.StatusForbidden)
		return
	}

	if r.URL.Query().Get("hydrate") == "1" {
		hydrated, err := denorm.HydrateApplication(ctx, h.repos, *app)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, hydrated)
		return
	}

	writeJSON(w, http.StatusOK, app)
}

// UpdateStatus applies accept/reject/complete. With an expectedVersion query
// parameter the optimistic variant is used; without it the write is
// last-writer-wins. Status never propagates to the job implicitly.
func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	appID := mux.Vars(r)["id"]

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	app, err := h.repos.Application.Get(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	if app == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if app.HirerID != id.UserID && id.Role != models.RoleAdmin {
		http.Error(w, "Not your application to decide", http.StatusForbidden)
		return
	}

	status := models.ApplicationStatus(req.Status)
	if raw := r.URL.Query().Get("expectedVersion"); raw != "" {
		expected, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			http.Error(w, "Invalid expectedVersion", http.StatusBadRequest)
			return
		}
		err = h.repos.Application.UpdateStatusChecked(ctx, appID, status, expected)
	} else {
		err = h.repos.Application.UpdateStatus(ctx, appID, status)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	warning := h.notifyDecision(ctx, app, status)
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status, "warning": warning})
}

// notifyDecision tells the worker about an accept/reject/complete decision.
// Second independent write: a failure is reported as a warning, never rolled
// back into the status change.
func (h *ApplicationsHandler) notifyDecision(ctx context.Context, app *models.Application, status models.ApplicationStatus) string {
	kind := models.NotificationApplication
	if status == models.ApplicationCompleted {
		kind = models.NotificationCompleted
	}

	notif := models.Notification{
		UserID:  app.WorkerID,
		Type:    kind,
		Title:   "Application " + string(status),
		Message: "Your application for " + app.JobTitle + " is now " + string(status),
		Data:    map[string]any{"applicationId": app.ID, "jobId": app.JobID},
	}
	if _, err := h.repos.Notification.Create(ctx, &notif); err != nil {
		logger.Warn("decision notification failed", "application_id", app.ID, "err", err)
		return "status updated but the worker was not notified"
	}

	return ""
}

func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	appID := mux.Vars(r)["id"]

	ctx := r.Context()
	app, err := h.repos.Application.Get(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	if app == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	// only the applying worker may withdraw; the completed guard lives in
	// the repository
	if app.WorkerID != id.UserID {
		http.Error(w, "Not your application", http.StatusForbidden)
		return
	}

	if err := h.repos.Application.Delete(ctx, appID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// ResyncWorkerSnapshot is the explicit snapshot refresh path.
func (h *ApplicationsHandler) ResyncWorkerSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	appID := mux.Vars(r)["id"]

	ctx := r.Context()
	app, err := h.repos.Application.Get(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	if app == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if app.WorkerID != id.UserID && id.Role != models.RoleAdmin {
		http.Error(w, "Not your application", http.StatusForbidden)
		return
	}

	if err := denorm.ResyncWorkerSnapshot(ctx, h.repos, appID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "snapshot refreshed"})
}
