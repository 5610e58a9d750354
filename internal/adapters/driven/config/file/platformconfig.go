package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/platform/fsutil"
)

// Ensure PlatformConfigStore implements the interface.
var _ driven.PlatformConfigStore = (*PlatformConfigStore)(nil)

// Keys of the ads client configuration file.
const (
	keyClientID        = "client_id"
	keyClientSecret    = "client_secret"
	keyRefreshToken    = "refresh_token"
	keyDeveloperToken  = "developer_token"
	keyLoginCustomerID = "login_customer_id"
)

// PlatformConfigStore maintains the YAML file the ads API client reads its
// OAuth and account fields from. Keys it does not manage are preserved.
type PlatformConfigStore struct {
	path string
}

// NewPlatformConfigStore creates a store backed by path.
func NewPlatformConfigStore(path string) *PlatformConfigStore {
	return &PlatformConfigStore{path: path}
}

// Load decodes the configuration file.
func (s *PlatformConfigStore) Load(_ context.Context) (*domain.PlatformConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var cfg domain.PlatformConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &cfg, nil
}

// Update writes cfg into the file unless it already holds the same values.
// The client id, client secret and refresh token are always written
// together; the developer token and login customer id only when set.
func (s *PlatformConfigStore) Update(_ context.Context, cfg domain.PlatformConfig) (bool, error) {
	doc, err := s.readMap()
	if err != nil {
		return false, err
	}

	fields := map[string]string{
		keyClientID:     cfg.ClientID,
		keyClientSecret: cfg.ClientSecret,
		keyRefreshToken: cfg.RefreshToken,
	}
	if cfg.DeveloperToken != "" {
		fields[keyDeveloperToken] = cfg.DeveloperToken
	}
	if cfg.LoginCustomerID != "" {
		fields[keyLoginCustomerID] = cfg.LoginCustomerID
	}

	if upToDate(doc, fields) {
		return false, nil
	}

	for k, v := range fields {
		doc[k] = v
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0600); err != nil {
		return false, err
	}
	return true, nil
}

// readMap returns the file as a generic map; a missing or empty file is an
// empty map.
func (s *PlatformConfigStore) readMap() (map[string]any, error) {
	doc := make(map[string]any)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

// upToDate reports whether every field is present in doc with the same
// non-empty value.
func upToDate(doc map[string]any, fields map[string]string) bool {
	for k, want := range fields {
		got, ok := doc[k].(string)
		if !ok || got == "" || got != want {
			return false
		}
	}
	return true
}

// Path returns the configuration file path.
func (s *PlatformConfigStore) Path() string {
	return s.path
}
