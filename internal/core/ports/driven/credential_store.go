package driven

import (
	"context"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// CredentialStore persists the OAuth credential between runs.
type CredentialStore interface {
	// Load reads the persisted credential.
	// Returns domain.ErrNotFound when nothing has been persisted yet.
	Load(ctx context.Context) (*domain.Credential, error)

	// Save persists the credential, replacing any previous one atomically.
	Save(ctx context.Context, cred *domain.Credential) error

	// Path returns the storage location, for diagnostics.
	Path() string
}

// PlatformConfigStore persists the configuration the ads API client reads.
type PlatformConfigStore interface {
	// Load reads the platform configuration.
	// Returns domain.ErrNotFound when the file does not exist.
	Load(ctx context.Context) (*domain.PlatformConfig, error)

	// Update writes cfg unless the stored client id, client secret and
	// refresh token (and any non-empty static field) already match.
	// Returns true when the file was written.
	Update(ctx context.Context, cfg domain.PlatformConfig) (bool, error)

	// Path returns the storage location, for diagnostics.
	Path() string
}
