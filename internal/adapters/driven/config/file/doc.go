// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based application settings
//   - TokenStore: JSON credential file (driven.CredentialStore)
//   - PlatformConfigStore: YAML ads client configuration (driven.PlatformConfigStore)
package file
