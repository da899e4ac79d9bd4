package repository

import (
	"context"

	"github.com/garnizeh/dayhire/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	// Get returns (nil, nil) when no user exists for id.
	Get(ctx context.Context, id string) (*models.User, error)
	// Create stores a user under the auth boundary's opaque id (first sign-in).
	Create(ctx context.Context, id string, u *models.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
}

type JobRepo interface {
	Get(ctx context.Context, id string) (*models.Job, error)
	GetAll(ctx context.Context) ([]models.Job, error)
	GetByHirer(ctx context.Context, hirerID string) ([]models.Job, error)
	// Create stamps status open and createdAt, and copies the caller-supplied
	// hirer snapshot fields verbatim (no lookup).
	Create(ctx context.Context, j *models.Job) (string, error)
	UpdateStatus(ctx context.Context, id string, status models.JobStatus) error
}

type ApplicationRepo interface {
	Get(ctx context.Context, id string) (*models.Application, error)
	GetByHirer(ctx context.Context, hirerID string) ([]models.Application, error)
	GetByWorker(ctx context.Context, workerID string) ([]models.Application, error)
	GetByJob(ctx context.Context, jobID string) ([]models.Application, error)
	// Create rejects an unresolvable jobId and captures the worker/job-title
	// snapshots at the moment of submission.
	Create(ctx context.Context, a *models.Application) (string, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	// UpdateStatusChecked applies the transition only when the stored version
	// still equals expectedVersion (opt-in optimistic concurrency).
	UpdateStatusChecked(ctx context.Context, id string, status models.ApplicationStatus, expectedVersion int64) error
	// Delete withdraws an application; refused once it is completed.
	Delete(ctx context.Context, id string) error
	// ResyncWorkerSnapshot overwrites the worker identity snapshot with the
	// supplied current values. The only refresh path; nothing refreshes
	// snapshots implicitly.
	ResyncWorkerSnapshot(ctx context.Context, id, workerName, workerPic string) error
}

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	GetByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	// MarkAllRead is a best-effort batch: partial failure leaves some
	// notifications read and others not.
	MarkAllRead(ctx context.Context, userID string) error
}

type MessageRepo interface {
	Send(ctx context.Context, m *models.Message) (string, error)
	// GetAllForUser returns every message where the user is sender or
	// receiver, in strict chronological order (ties broken by store insertion
	// order). This single query is the only data source for conversation
	// derivation.
	GetAllForUser(ctx context.Context, userID string) ([]models.Message, error)
	// MarkConversationRead flips read on every unread message from
	// counterpartyID to userID. Best-effort batch, no atomicity.
	MarkConversationRead(ctx context.Context, userID, counterpartyID string) error
}

type ReviewRepo interface {
	Create(ctx context.Context, r *models.Review) (string, error)
	GetByTarget(ctx context.Context, targetID string) ([]models.Review, error)
	// AverageRating is computed live from stored reviews; it is never pushed
	// back into the Job.hirerRating snapshot.
	AverageRating(ctx context.Context, targetID string) (float64, int, error)
}

type CredentialRepo interface {
	Create(ctx context.Context, c *models.Credential) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
}

// Repository bundles the per-entity contracts for consumers that need
// several of them.
type Repository struct {
	User         UserRepo
	Job          JobRepo
	Application  ApplicationRepo
	Notification NotificationRepo
	Message      MessageRepo
	Review       ReviewRepo
	Credential   CredentialRepo
}
