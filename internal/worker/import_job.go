package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AbuBakr-03/watchtower/internal/importer"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
)

var (
	ErrJobNotFound = errors.New("import job not found")
)

const (
	// jobTTL is how long finished job records stay queryable.
	jobTTL = 24 * time.Hour

	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// ImportJob is the Redis-backed record of one asynchronous CSV import.
type ImportJob struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	Filename       string    `json:"filename"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	AcceptedCount  int       `json:"accepted_count"`
	DuplicateCount int       `json:"duplicate_count"`
	InvalidCount   int       `json:"invalid_count"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at,omitempty"`
}

// ImportJobService runs contact imports in the background and tracks
// their progress in Redis so the dashboard can poll.
type ImportJobService struct {
	contacts *contact.Service
	rdb      *redis.Client
}

// NewImportJobService creates the async import runner.
func NewImportJobService(contacts *contact.Service, rdb *redis.Client) *ImportJobService {
	return &ImportJobService{contacts: contacts, rdb: rdb}
}

func jobKey(tenantID, id string) string {
	return fmt.Sprintf("import:job:%s:%s", tenantID, id)
}

func resultKey(tenantID, id string) string {
	return fmt.Sprintf("import:result:%s:%s", tenantID, id)
}

// Start records a pending job and kicks off processing in a goroutine.
// The returned job ID is immediately pollable via Job and Result.
func (s *ImportJobService) Start(ctx context.Context, tenantID, createdBy, filename, payload string) (string, error) {
	job := &ImportJob{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Filename:  filename,
		Status:    JobStatusPending,
		StartedAt: time.Now().UTC(),
	}
	if err := s.saveJob(ctx, job); err != nil {
		return "", err
	}

	go s.run(job, createdBy, payload)
	return job.ID, nil
}

// run executes the import with a fresh context; the HTTP request that
// started the job has usually returned by the time this finishes.
func (s *ImportJobService) run(job *ImportJob, createdBy, payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	job.Status = JobStatusRunning
	if err := s.saveJob(ctx, job); err != nil {
		log.Printf("[ImportJob] %s: save running state: %v", job.ID, err)
	}

	result, err := s.contacts.Import(ctx, job.TenantID, createdBy, payload)
	job.CompletedAt = time.Now().UTC()

	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
		log.Printf("[ImportJob] %s: import failed: %v", job.ID, err)
	} else {
		job.Status = JobStatusCompleted
		job.AcceptedCount = result.Summary.AcceptedCount
		job.DuplicateCount = result.Summary.DuplicateCount
		job.InvalidCount = result.Summary.InvalidCount
		if data, merr := json.Marshal(result); merr == nil {
			s.rdb.Set(ctx, resultKey(job.TenantID, job.ID), data, jobTTL)
		}
		log.Printf("[ImportJob] %s: imported %d accepted, %d duplicates, %d invalid",
			job.ID, job.AcceptedCount, job.DuplicateCount, job.InvalidCount)
	}

	if err := s.saveJob(ctx, job); err != nil {
		log.Printf("[ImportJob] %s: save final state: %v", job.ID, err)
	}
}

func (s *ImportJobService) saveJob(ctx context.Context, job *ImportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := s.rdb.Set(ctx, jobKey(job.TenantID, job.ID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

// Job returns the current state of an import job.
func (s *ImportJobService) Job(ctx context.Context, tenantID, id string) (*ImportJob, error) {
	data, err := s.rdb.Get(ctx, jobKey(tenantID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	job := &ImportJob{}
	if err := json.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

// Result returns the full batch result for a completed job, or
// ErrJobNotFound when the job is unknown, still running, or expired.
func (s *ImportJobService) Result(ctx context.Context, tenantID, id string) (*importer.BatchResult, error) {
	data, err := s.rdb.Get(ctx, resultKey(tenantID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	result := &importer.BatchResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}
