package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/adsync/internal/platform/fsutil"
)

// Settings is the adsync application configuration.
//
// Values come from config.toml and may be overridden by environment
// variables (see the env tags) and then by command line flags.
type Settings struct {
	OAuth OAuthSettings `toml:"oauth"`
	Ads   AdsSettings   `toml:"ads"`
	Files FileSettings  `toml:"files"`
	Sync  SyncSettings  `toml:"sync"`
}

// OAuthSettings configures the installed-app authorization flow.
type OAuthSettings struct {
	ClientID     string `toml:"client_id" env:"CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"CLIENT_SECRET"`
	// CallbackPort is the preferred local port for the consent redirect.
	CallbackPort int `toml:"callback_port" env:"ADSYNC_CALLBACK_PORT"`
	// Interactive allows browser consent when no usable credential exists.
	Interactive bool `toml:"interactive" env:"ADSYNC_INTERACTIVE"`
	// LoginHint preselects the Google account on the consent screen.
	LoginHint string `toml:"login_hint" env:"ADSYNC_LOGIN_HINT"`
}

// AdsSettings identifies the ads account.
type AdsSettings struct {
	CustomerID      string `toml:"customer_id" env:"CUSTOMER_ID"`
	DeveloperToken  string `toml:"developer_token" env:"DEVELOPER_TOKEN"`
	LoginCustomerID string `toml:"login_customer_id" env:"LOGIN_CUSTOMER_ID"`
}

// FileSettings locates the files adsync reads and writes.
type FileSettings struct {
	TokenFile      string `toml:"token_file" env:"ADSYNC_TOKEN_FILE"`
	PlatformConfig string `toml:"platform_config" env:"ADSYNC_PLATFORM_CONFIG"`
	Input          string `toml:"input" env:"ADSYNC_INPUT"`
	// Ledger is the run history database. Empty disables run history.
	Ledger string `toml:"ledger" env:"ADSYNC_LEDGER"`
}

// SyncSettings configures the input records.
type SyncSettings struct {
	Audience    string `toml:"audience" env:"ADSYNC_AUDIENCE"`
	EmailColumn string `toml:"email_column" env:"ADSYNC_EMAIL_COLUMN"`
}

// Default file names, relative to the working directory.
const (
	DefaultTokenFile      = "token.json"
	DefaultPlatformConfig = "google-ads.yaml"
	DefaultInput          = "emails.csv"
	DefaultEmailColumn    = "Email"
	DefaultCallbackPort   = 8080
)

// DefaultSettings returns the settings used when nothing is configured.
// configDir is where the run ledger lives.
func DefaultSettings(configDir string) Settings {
	return Settings{
		OAuth: OAuthSettings{
			CallbackPort: DefaultCallbackPort,
			Interactive:  true,
		},
		Files: FileSettings{
			TokenFile:      DefaultTokenFile,
			PlatformConfig: DefaultPlatformConfig,
			Input:          DefaultInput,
			Ledger:         filepath.Join(configDir, "data", "runs.db"),
		},
		Sync: SyncSettings{
			EmailColumn: DefaultEmailColumn,
		},
	}
}

// ConfigStore reads and writes Settings as TOML.
// Configuration is stored in config.toml within the adsync config directory.
type ConfigStore struct {
	mu        sync.RWMutex
	configDir string
	filePath  string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.adsync.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	return &ConfigStore{
		configDir: configDir,
		filePath:  filepath.Join(configDir, "config.toml"),
	}, nil
}

// DefaultConfigDir returns ~/.adsync.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".adsync"), nil
}

// Load reads the settings file over the defaults.
// A missing file yields the defaults.
func (s *ConfigStore) Load() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := DefaultSettings(s.configDir)

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read %s: %w", s.filePath, err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save persists settings with restricted permissions.
func (s *ConfigStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.filePath, data, 0600)
}

// Dir returns the configuration directory.
func (s *ConfigStore) Dir() string {
	return s.configDir
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
