package utils

import (
	"sync"
	"time"

	"mediadesk-backend/dtos"

	"github.com/google/uuid"
)

// JobStore manages import jobs in memory
type JobStore struct {
	jobs map[uuid.UUID]*dtos.ImportJob
	mu   sync.RWMutex
}

// Global job store instance
var Store = &JobStore{
	jobs: make(map[uuid.UUID]*dtos.ImportJob),
}

// CleanupOldJobs removes completed/failed jobs older than 1 hour.
func (js *JobStore) CleanupOldJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	for id, job := range js.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(js.jobs, id)
		} else if job.StartedAt.Before(cutoff) && (job.Status == dtos.JobStatusCompleted || job.Status == dtos.JobStatusFailed) {
			delete(js.jobs, id)
		}
	}
}

// CreateJob creates a new import job
func (js *JobStore) CreateJob(totalAssets int) *dtos.ImportJob {
	// Clean up old jobs on each new creation
	js.CleanupOldJobs()

	js.mu.Lock()
	defer js.mu.Unlock()

	job := &dtos.ImportJob{
		ID:        uuid.New(),
		Status:    dtos.JobStatusPending,
		Progress:  0,
		Total:     totalAssets,
		Processed: 0,
		Created:   0,
		Failed:    0,
		Errors:    []dtos.ImportError{},
		StartedAt: time.Now(),
	}

	js.jobs[job.ID] = job
	return job
}

// GetJob returns a snapshot copy of a job by ID, safe to serialize while the
// import goroutine keeps mutating the original.
func (js *JobStore) GetJob(id uuid.UUID) (dtos.ImportJob, bool) {
	js.mu.RLock()
	defer js.mu.RUnlock()

	job, exists := js.jobs[id]
	if !exists {
		return dtos.ImportJob{}, false
	}

	snapshot := *job
	snapshot.Errors = append([]dtos.ImportError(nil), job.Errors...)
	return snapshot, true
}

// UpdateJob applies updates to a job under the store lock.
func (js *JobStore) UpdateJob(id uuid.UUID, updates func(*dtos.ImportJob)) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[id]; exists {
		updates(job)
	}
}

// SetProcessing marks a job as processing
func (js *JobStore) SetProcessing(id uuid.UUID) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[id]; exists {
		job.Status = dtos.JobStatusProcessing
	}
}

// CompleteJob marks a job as completed or failed
func (js *JobStore) CompleteJob(id uuid.UUID, status string) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[id]; exists {
		job.Status = status
		job.Progress = 100
		now := time.Now()
		job.CompletedAt = &now
	}
}
