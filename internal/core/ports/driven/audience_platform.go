package driven

import (
	"context"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// AudiencePlatform is the narrow surface of the ads platform adsync uses.
// Every error returned for a platform-side rejection is a
// *domain.RemoteFailure.
type AudiencePlatform interface {
	// SearchAudienceByName looks up a user list of customerID whose name
	// equals name exactly. Rejections are reported in the lookup, not as an
	// error.
	SearchAudienceByName(ctx context.Context, customerID, name string) domain.AudienceLookup

	// CreateAudience creates a user list and returns its resource name.
	CreateAudience(ctx context.Context, customerID string, audience domain.AudienceResource) (string, error)

	// CreateJob creates a customer-match offline user data job targeting
	// audienceResourceName and returns the job resource name.
	CreateJob(ctx context.Context, customerID, audienceResourceName string) (string, error)

	// AddJobOperations adds all ops to the job in a single request.
	AddJobOperations(ctx context.Context, jobResourceName string, ops []domain.HashedIdentifier) error

	// RunJob asks the platform to start processing the job.
	RunJob(ctx context.Context, jobResourceName string) error
}

// RecordSource yields the input identifier records.
type RecordSource interface {
	// Records reads every data row in order.
	Records(ctx context.Context) ([]domain.IdentifierRecord, error)
}

// RunLedger keeps a local history of sync runs.
type RunLedger interface {
	// SaveRun creates or updates the run keyed by job.ID.
	SaveRun(ctx context.Context, job *domain.SyncJob) error

	// ListRuns returns the most recent runs first, at most limit.
	ListRuns(ctx context.Context, limit int) ([]domain.SyncJob, error)
}
