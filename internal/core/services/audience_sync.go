package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/core/ports/driving"
	"github.com/custodia-labs/adsync/internal/logger"
)

// Ensure AudienceSyncService implements the interface.
var _ driving.AudienceSync = (*AudienceSyncService)(nil)

// SyncConfig configures audience sync.
type SyncConfig struct {
	// CustomerID is the ads account that owns the audience, digits only.
	CustomerID string
}

// AudienceSyncService ensures a named audience exists and submits hashed
// identifiers to it through a single offline user data job.
//
// A run stops at the first failure and nothing is retried. A run that fails
// after its job was created leaves that job behind on the platform; the
// ledger records it as failed so an operator can clean it up.
type AudienceSyncService struct {
	cfg      SyncConfig
	platform driven.AudiencePlatform
	ledger   driven.RunLedger // optional
	now      func() time.Time
}

// NewAudienceSyncService creates a new audience sync service.
// ledger may be nil.
func NewAudienceSyncService(cfg SyncConfig, platform driven.AudiencePlatform, ledger driven.RunLedger) *AudienceSyncService {
	return &AudienceSyncService{
		cfg:      cfg,
		platform: platform,
		ledger:   ledger,
		now:      time.Now,
	}
}

// HashIdentifier normalizes raw and returns its hex SHA-256 digest.
func (s *AudienceSyncService) HashIdentifier(raw string) domain.HashedIdentifier {
	return domain.HashIdentifier(raw)
}

// FindOrCreateAudience returns the resource name of the audience called name.
// An existing audience is returned untouched; a missing one is created with
// the fixed policy defaults.
func (s *AudienceSyncService) FindOrCreateAudience(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, fmt.Errorf("%w: audience name is required", domain.ErrInvalidInput)
	}

	lookup := s.platform.SearchAudienceByName(ctx, s.cfg.CustomerID, name)
	switch lookup.Status {
	case domain.LookupFound:
		logger.Info("Found existing audience %q: %s", name, lookup.ResourceName)
		return lookup.ResourceName, false, nil
	case domain.LookupFailed:
		logRemoteFailure("Audience search", lookup.Failure)
		return "", false, fmt.Errorf("search audience %q: %w", name, failureOrRejection(lookup.Failure))
	}

	resourceName, err := s.platform.CreateAudience(ctx, s.cfg.CustomerID, domain.NewAudience(name))
	if err != nil {
		logRemoteError("Audience creation", err)
		return "", false, fmt.Errorf("create audience %q: %w", name, err)
	}
	logger.Info("Created audience %q: %s", name, resourceName)
	return resourceName, true, nil
}

// BuildOperations hashes the email of every record that has one.
// Records without an email are skipped and counted.
func (s *AudienceSyncService) BuildOperations(records []domain.IdentifierRecord) ([]domain.HashedIdentifier, int) {
	ops := make([]domain.HashedIdentifier, 0, len(records))
	skipped := 0
	for _, r := range records {
		if domain.NormalizeIdentifier(r.Email) == "" {
			skipped++
			continue
		}
		ops = append(ops, s.HashIdentifier(r.Email))
	}
	return ops, skipped
}

// SubmitAudienceSync uploads records to the audience as one offline user
// data job and triggers the job run. The run is not awaited.
func (s *AudienceSyncService) SubmitAudienceSync(
	ctx context.Context,
	audienceResourceName string,
	records []domain.IdentifierRecord,
) (*domain.SyncJob, error) {
	job := s.newJob(audienceResourceName)
	return job, s.submit(ctx, job, records)
}

func (s *AudienceSyncService) newJob(audienceResourceName string) *domain.SyncJob {
	now := s.now()
	return &domain.SyncJob{
		ID:                   uuid.New().String(),
		AudienceResourceName: audienceResourceName,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (s *AudienceSyncService) submit(ctx context.Context, job *domain.SyncJob, records []domain.IdentifierRecord) error {
	logger.Section("Audience Sync")

	job.Operations, job.Skipped = s.BuildOperations(records)
	job.Submitted = len(job.Operations)
	logger.Debug("Built %d operations, skipped %d records without email", len(job.Operations), job.Skipped)
	if len(job.Operations) == 0 {
		return fmt.Errorf("%w: %d records, none with an email", domain.ErrNoIdentifiers, len(records))
	}

	resourceName, err := s.platform.CreateJob(ctx, s.cfg.CustomerID, job.AudienceResourceName)
	if err != nil {
		logRemoteError("Offline user data job creation", err)
		return fmt.Errorf("create offline user data job: %w", err)
	}
	job.ResourceName = resourceName
	s.transition(ctx, job, domain.JobCreated, nil)
	logger.Info("Created offline user data job %s", resourceName)

	if err := s.platform.AddJobOperations(ctx, resourceName, job.Operations); err != nil {
		logRemoteError("Adding job operations", err)
		s.transition(ctx, job, domain.JobFailed, err)
		logger.Warn("Offline user data job %s was created but not populated; remove it manually if needed", resourceName)
		return fmt.Errorf("add operations to %s: %w", resourceName, err)
	}
	s.transition(ctx, job, domain.JobPopulated, nil)
	logger.Info("Uploaded %d members to offline user data job %s", len(job.Operations), resourceName)

	if err := s.platform.RunJob(ctx, resourceName); err != nil {
		logRemoteError("Running job", err)
		s.transition(ctx, job, domain.JobFailed, err)
		return fmt.Errorf("run %s: %w", resourceName, err)
	}
	s.transition(ctx, job, domain.JobRunning, nil)
	logger.Info("Requested to run offline user data job %s", resourceName)

	return nil
}

// Sync runs find-or-create followed by submission, stopping at the first
// failure.
func (s *AudienceSyncService) Sync(ctx context.Context, name string, records []domain.IdentifierRecord) (*domain.SyncReport, error) {
	resourceName, created, err := s.FindOrCreateAudience(ctx, name)
	if err != nil {
		return nil, err
	}

	job := s.newJob(resourceName)
	job.AudienceName = name
	err = s.submit(ctx, job, records)

	report := &domain.SyncReport{
		RunID:                job.ID,
		AudienceName:         name,
		AudienceResourceName: resourceName,
		AudienceCreated:      created,
		JobResourceName:      job.ResourceName,
		Submitted:            job.Submitted,
		Skipped:              job.Skipped,
		Status:               job.Status,
	}
	return report, err
}

// History returns recent runs, most recent first.
func (s *AudienceSyncService) History(ctx context.Context, limit int) ([]domain.SyncJob, error) {
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.ListRuns(ctx, limit)
}

// transition moves job to status and records it in the ledger.
// Ledger failures are logged and never stop the run.
func (s *AudienceSyncService) transition(ctx context.Context, job *domain.SyncJob, status domain.JobStatus, cause error) {
	job.Status = status
	job.UpdatedAt = s.now()
	if cause != nil {
		job.Error = cause.Error()
	}
	if s.ledger == nil {
		return
	}
	if err := s.ledger.SaveRun(ctx, job); err != nil {
		logger.Warn("Could not record run %s: %v", job.ID, err)
	}
}

// failureOrRejection returns f as an error, or ErrRemoteRejection when the
// platform gave no detail.
func failureOrRejection(f *domain.RemoteFailure) error {
	if f == nil {
		return domain.ErrRemoteRejection
	}
	return f
}

// logRemoteError logs err, expanding structured platform failures.
func logRemoteError(step string, err error) {
	if f, ok := domain.AsRemoteFailure(err); ok {
		logRemoteFailure(step, f)
		return
	}
	logger.Error("%s failed: %v", step, err)
}

// logRemoteFailure logs the status and every violation verbatim.
func logRemoteFailure(step string, f *domain.RemoteFailure) {
	if f == nil {
		logger.Error("%s failed without detail", step)
		return
	}
	logger.ErrorFields(step+" failed", map[string]any{
		"http_status": f.HTTPStatus,
		"status":      f.Status,
		"message":     f.Message,
		"request_id":  f.RequestID,
	})
	for _, v := range f.Violations {
		fields := map[string]any{"code": v.Code, "message": v.Message}
		if v.FieldPath != "" {
			fields["field"] = v.FieldPath
		}
		logger.ErrorFields("Platform error", fields)
	}
}
