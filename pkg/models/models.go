package models

// Domain models matching the entity schemas in internal/schema/schemas.
// All ids are opaque strings assigned by the store on creation (the user id
// is the exception: it comes from the auth boundary at first sign-in).
// Timestamps are unix milliseconds UTC.

type Role string

const (
	RoleWorker Role = "worker"
	RoleHire   Role = "hire"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PhotoURL      string   `json:"photoURL,omitempty"`
	Role          Role     `json:"role"`
	Location      string   `json:"location,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Experience    string   `json:"experience,omitempty"`
	About         string   `json:"about,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Rating        float64  `json:"rating"`
	TotalEarnings float64  `json:"totalEarnings"`
	JobsCompleted int64    `json:"jobsCompleted"`
	Created       int64    `json:"createdAt"`
}

type JobStatus string

const (
	JobOpen       JobStatus = "open"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// jobTransitions lists the allowed status moves; completed and cancelled are
// terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen:       {JobInProgress, JobCancelled},
	JobInProgress: {JobCompleted, JobCancelled},
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Job carries a snapshot of the hirer's identity (HirerName, HirerPic,
// HirerRating) captured at creation time. The snapshot is never auto-refreshed;
// callers that need current values must re-fetch the User by HirerID.
type Job struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Wage            float64   `json:"wage"`
	Location        string    `json:"location"`
	IsUrgent        bool      `json:"isUrgent"`
	Status          JobStatus `json:"status"`
	HirerID         string    `json:"hirerId"`
	HirerName       string    `json:"hirerName"`
	HirerPic        string    `json:"hirerPic"`
	HirerRating     float64   `json:"hirerRating"`
	ApplicantsCount int64     `json:"applicantsCount"`
	Created         int64     `json:"createdAt"`
}

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:  {ApplicationAccepted, ApplicationRejected},
	ApplicationAccepted: {ApplicationCompleted},
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Application links one Job to one Worker. WorkerName, WorkerPic and JobTitle
// are write-time snapshots; the job's wage is deliberately not snapshotted and
// must be looked up live through JobID for any earnings computation. Version
// backs the opt-in optimistic status update.
type Application struct {
	ID           string            `json:"id"`
	JobID        string            `json:"jobId"`
	HirerID      string            `json:"hirerId"`
	WorkerID     string            `json:"workerId"`
	WorkerName   string            `json:"workerName"`
	WorkerPic    string            `json:"workerPic"`
	JobTitle     string            `json:"jobTitle"`
	CoverLetter  string            `json:"coverLetter,omitempty"`
	ExpectedWage float64           `json:"expectedWage"`
	Availability string            `json:"availability,omitempty"`
	Skills       []string          `json:"skills,omitempty"`
	Status       ApplicationStatus `json:"status"`
	Version      int64             `json:"version"`
	Created      int64             `json:"createdAt"`
}

type NotificationType string

const (
	NotificationApplication NotificationType = "application"
	NotificationEarnings    NotificationType = "earnings"
	NotificationMessage     NotificationType = "message"
	NotificationCompleted   NotificationType = "completed"
	NotificationReview      NotificationType = "review"
	NotificationUpdate      NotificationType = "update"
)

type Notification struct {
	ID      string           `json:"id"`
	UserID  string           `json:"userId"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title,omitempty"`
	Message string           `json:"message,omitempty"`
	Data    map[string]any   `json:"data"`
	Read    bool             `json:"read"`
	Created int64            `json:"createdAt"`
}

// Message is immutable once created except for Read transitioning false→true.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Read       bool   `json:"read"`
	Created    int64  `json:"createdAt"`
}

// Review is append-only.
type Review struct {
	ID         string  `json:"id"`
	JobID      string  `json:"jobId"`
	ReviewerID string  `json:"reviewerId"`
	TargetID   string  `json:"targetId"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment"`
	Created    int64   `json:"createdAt"`
}

// Credential holds the auth boundary's sign-in secret for a user. It lives in
// its own collection and never travels past the api package.
type Credential struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Created      int64  `json:"createdAt"`
}

// Conversation is a derived view, never persisted: one per counterparty,
// computed from the flat message log by the conversation package.
type Conversation struct {
	CounterpartyID string  `json:"counterpartyId"`
	LastMessage    Message `json:"lastMessage"`
	UnreadCount    int     `json:"unreadCount"`
	MessageCount   int     `json:"messageCount"`
}
