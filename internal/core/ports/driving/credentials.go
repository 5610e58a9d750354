package driving

import (
	"context"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// CredentialResolver produces one valid credential per invocation,
// prompting the user only when nothing cached can be used.
type CredentialResolver interface {
	// Resolve returns a valid credential, from the cache, by refreshing it,
	// or through interactive consent. The result is persisted.
	Resolve(ctx context.Context) (*domain.Credential, error)

	// SyncPlatformConfig mirrors the credential into the ads client config.
	// Returns true when the config file was written.
	SyncPlatformConfig(ctx context.Context, cred *domain.Credential) (bool, error)
}
