package api

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/internal/config"
	"github.com/garnizeh/dayhire/pkg/repository"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, repos *repository.Repository) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repos.User, repos.Credential, cfg.JWTSecret, cfg.TokenDuration)
	usersHandler := NewUsersHandler(repos.User, repos.Review)
	jobsHandler := NewJobsHandler(repos.Job, repos.Application)
	applicationsHandler := NewApplicationsHandler(repos)
	notificationsHandler := NewNotificationsHandler(repos.Notification)
	messagesHandler := NewMessagesHandler(repos.Message, repos.Notification)
	reviewsHandler := NewReviewsHandler(repos.Review, repos.Notification)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// Users
	apiV1.HandleFunc("/users/me", usersHandler.UpdateMe).Methods("PATCH")
	apiV1.HandleFunc("/users/{id}", usersHandler.Get).Methods("GET")
	apiV1.HandleFunc("/users/{id}/rating", usersHandler.Rating).Methods("GET")
	apiV1.HandleFunc("/users/{id}/reviews", reviewsHandler.ListByTarget).Methods("GET")

	// Jobs
	apiV1.HandleFunc("/jobs", jobsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/jobs", jobsHandler.List).Methods("GET")
	apiV1.HandleFunc("/jobs/mine", jobsHandler.ListMine).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}/status", jobsHandler.UpdateStatus).Methods("PATCH")
	apiV1.HandleFunc("/jobs/{id}/applications", jobsHandler.ListApplications).Methods("GET")

	// Applications
	apiV1.HandleFunc("/applications", applicationsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/applications/mine", applicationsHandler.ListMine).Methods("GET")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/applications/{id}/status", applicationsHandler.UpdateStatus).Methods("PATCH")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/applications/{id}/resync-worker", applicationsHandler.ResyncWorkerSnapshot).Methods("POST")

	// Notifications
	apiV1.HandleFunc("/notifications", notificationsHandler.List).Methods("GET")
	apiV1.HandleFunc("/notifications/read-all", notificationsHandler.MarkAllRead).Methods("POST")
	apiV1.HandleFunc("/notifications/{id}/read", notificationsHandler.MarkRead).Methods("POST")

	// Messages and derived conversations
	apiV1.HandleFunc("/messages", messagesHandler.Send).Methods("POST")
	apiV1.HandleFunc("/messages", messagesHandler.List).Methods("GET")
	apiV1.HandleFunc("/conversations", messagesHandler.Conversations).Methods("GET")
	apiV1.HandleFunc("/conversations/{counterpartyId}/read", messagesHandler.MarkConversationRead).Methods("POST")

	// Reviews
	apiV1.HandleFunc("/reviews", reviewsHandler.Create).Methods("POST")

	return r
}
