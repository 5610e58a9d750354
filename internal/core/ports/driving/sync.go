package driving

import (
	"context"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// AudienceSync pushes hashed identifiers into a named audience.
type AudienceSync interface {
	// FindOrCreateAudience returns the resource name of the audience called
	// name, creating it with the fixed policy defaults when absent.
	FindOrCreateAudience(ctx context.Context, name string) (resourceName string, created bool, err error)

	// SubmitAudienceSync uploads records to the audience as one offline job
	// and triggers the job run.
	SubmitAudienceSync(ctx context.Context, audienceResourceName string, records []domain.IdentifierRecord) (*domain.SyncJob, error)

	// Sync runs find-or-create followed by submission.
	Sync(ctx context.Context, name string, records []domain.IdentifierRecord) (*domain.SyncReport, error)

	// History returns recent runs, most recent first.
	History(ctx context.Context, limit int) ([]domain.SyncJob, error)
}
