// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CredentialStore: Persisted OAuth credential (token file)
//   - PlatformConfigStore: Ads client configuration (google-ads.yaml)
//   - TokenExchanger: Authorization code and refresh token exchanges
//   - ConsentFlow: Interactive browser consent with a local callback
//   - AudiencePlatform: Remote user list and offline job operations
//   - RecordSource: Input identifier records (CSV)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunLedger: Local history of sync runs. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
