// Package domain defines the core business entities for adsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: OAuth client and token pair persisted between runs
//   - PlatformConfig: the fields mirrored into the Google Ads client config
//   - AudienceResource: a customer-match user list
//   - IdentifierRecord / HashedIdentifier: one input row and its digest
//   - SyncJob / SyncReport: one offline user data job and its outcome
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
