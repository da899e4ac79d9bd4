package models_test

import (
	"testing"

	"github.com/garnizeh/dayhire/pkg/models"
)

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.JobStatus
		to      models.JobStatus
		allowed bool
	}{
		{models.JobOpen, models.JobInProgress, true},
		{models.JobOpen, models.JobCancelled, true},
		{models.JobOpen, models.JobCompleted, false},
		{models.JobInProgress, models.JobCompleted, true},
		{models.JobInProgress, models.JobCancelled, true},
		{models.JobInProgress, models.JobOpen, false},
		{models.JobCompleted, models.JobCancelled, false},
		{models.JobCancelled, models.JobOpen, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Fatalf("%s -> %s: expected %v got %v", c.from, c.to, c.allowed, got)
		}
	}
}

func TestApplicationStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.ApplicationStatus
		to      models.ApplicationStatus
		allowed bool
	}{
		{models.ApplicationPending, models.ApplicationAccepted, true},
		{models.ApplicationPending, models.ApplicationRejected, true},
		{models.ApplicationPending, models.ApplicationCompleted, false},
		{models.ApplicationAccepted, models.ApplicationCompleted, true},
		{models.ApplicationAccepted, models.ApplicationRejected, false},
		{models.ApplicationRejected, models.ApplicationAccepted, false},
		{models.ApplicationCompleted, models.ApplicationPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Fatalf("%s -> %s: expected %v got %v", c.from, c.to, c.allowed, got)
		}
	}
}
