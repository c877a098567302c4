// Package scanrun defines one ingestion attempt and its status lifecycle.
package scanrun

import (
	"time"

	"github.com/repolens/ingest/pkg/domain/shared"
)

// Status is the lifecycle state of a scan run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusRunning, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the run can no longer transition.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ScanRun represents one ingestion attempt for a repository.
// It transitions running -> completed or running -> failed exactly once and
// is immutable afterward.
type ScanRun struct {
	ID           shared.ID
	RepositoryID shared.ID
	ScanType     string
	Status       Status
	ErrorMessage string

	FindingsCount int

	StartedAt   time.Time
	CompletedAt *time.Time
}

// New creates a scan run in the running state.
func New(repositoryID shared.ID, scanType string) (*ScanRun, error) {
	if repositoryID.IsZero() {
		return nil, shared.NewDomainError("VALIDATION", "repository_id is required", shared.ErrValidation)
	}
	if scanType == "" {
		scanType = "full"
	}

	return &ScanRun{
		ID:           shared.NewID(),
		RepositoryID: repositoryID,
		ScanType:     scanType,
		Status:       StatusRunning,
		StartedAt:    time.Now(),
	}, nil
}

// Complete marks the run completed with its final finding count.
func (r *ScanRun) Complete(findingsCount int) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("CONFLICT", "scan run already finished", shared.ErrConflict)
	}
	now := time.Now()
	r.Status = StatusCompleted
	r.FindingsCount = findingsCount
	r.CompletedAt = &now
	return nil
}

// Fail marks the run failed, recording the error text.
func (r *ScanRun) Fail(message string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("CONFLICT", "scan run already finished", shared.ErrConflict)
	}
	now := time.Now()
	r.Status = StatusFailed
	r.ErrorMessage = message
	r.CompletedAt = &now
	return nil
}
