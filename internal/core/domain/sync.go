package domain

import "time"

// JobStatus is the lifecycle state of an offline user data job.
type JobStatus string

// Job states. Running is terminal from adsync's point of view: the platform
// processes the job out of band and adsync never polls it.
const (
	JobCreated   JobStatus = "created"
	JobPopulated JobStatus = "populated"
	JobRunning   JobStatus = "running"
	JobFailed    JobStatus = "failed"
)

// JobTypeCustomerMatch is the offline user data job type for user lists.
const JobTypeCustomerMatch = "CUSTOMER_MATCH_USER_LIST"

// SyncJob is one offline user data job. A new job is created for every sync
// run and never reused.
type SyncJob struct {
	// ID is the local run id.
	ID string
	// ResourceName is the remote job handle, empty until created.
	ResourceName string
	// AudienceName is the user list name the run targets.
	AudienceName string
	// AudienceResourceName is the remote handle of the target user list.
	AudienceResourceName string
	// Operations are the hashed identifiers to add, in input order.
	Operations []HashedIdentifier
	// Submitted is len(Operations). Runs read back from the ledger carry
	// only the count.
	Submitted int
	// Skipped counts input records without a usable identifier.
	Skipped int
	// Status is the current lifecycle state.
	Status JobStatus
	// Error holds the failure message once Status is JobFailed.
	Error string
	// CreatedAt is when the run started.
	CreatedAt time.Time
	// UpdatedAt is when Status last changed.
	UpdatedAt time.Time
}

// SyncReport summarises a completed sync run.
type SyncReport struct {
	RunID                string
	AudienceName         string
	AudienceResourceName string
	AudienceCreated      bool
	JobResourceName      string
	Submitted            int
	Skipped              int
	Status               JobStatus
}
