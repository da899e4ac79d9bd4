package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

type JobsHandler struct {
	jobs         repository.JobRepo
	applications repository.ApplicationRepo
}

func NewJobsHandler(jr repository.JobRepo, ar repository.ApplicationRepo) *JobsHandler {
	return &JobsHandler{jobs: jr, applications: ar}
}

type createJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Wage        float64 `json:"wage"`
	Location    string  `json:"location"`
	IsUrgent    bool    `json:"isUrgent"`
	HirerRating float64 `json:"hirerRating"`
}

// Create posts a new job. The hirer identity snapshot comes verbatim from the
// caller's token claims; nothing is looked up.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if id.Role != models.RoleHire && id.Role != models.RoleAdmin {
		http.Error(w, "Only hirers can post jobs", http.StatusForbidden)
		return
	}

	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	job := models.Job{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Wage:        req.Wage,
		Location:    req.Location,
		IsUrgent:    req.IsUrgent,
		HirerID:     id.UserID,
		HirerName:   id.Name,
		HirerPic:    id.PhotoURL,
		HirerRating: req.HirerRating,
	}

	jobID, err := h.jobs.Create(r.Context(), &job)
	if err != nil {
		writeError(w, err)
		return
	}
	job.ID = jobID
	job.Status = models.JobOpen

	writeJSON(w, http.StatusCreated, job)
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobs, err := h.jobs.GetByHirer(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	if job == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	jobID := mux.Vars(r)["id"]

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	job, err := h.jobs.Get(ctx, jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	if job == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if job.HirerID != id.UserID && id.Role != models.RoleAdmin {
		http.Error(w, "Not your job", http.StatusForbidden)
		return
	}

	if err := h.jobs.UpdateStatus(ctx, jobID, models.JobStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ListApplications returns the applications submitted to one job, for its
// hirer.
func (h *JobsHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	jobID := mux.Vars(r)["id"]

	ctx := r.Context()
	job, err := h.jobs.Get(ctx, jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	if job == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if job.HirerID != id.UserID && id.Role != models.RoleAdmin {
		http.Error(w, "Not your job", http.StatusForbidden)
		return
	}

	apps, err := h.applications.GetByJob(ctx, jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}
