// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - CredentialService: cached, refreshed or interactively granted OAuth credentials
//   - AudienceSyncService: find-or-create a user list and submit hashed identifiers
//
// Services take explicit configuration structs and never read the
// environment or the filesystem themselves.
package services
