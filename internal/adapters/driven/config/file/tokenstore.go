package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/platform/fsutil"
)

// Ensure TokenStore implements the interface.
var _ driven.CredentialStore = (*TokenStore)(nil)

// TokenStore persists the credential as a JSON file readable only by the
// owner.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store backed by path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the credential file.
func (s *TokenStore) Load(_ context.Context) (*domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &cred, nil
}

// Save replaces the credential file atomically with mode 0600.
func (s *TokenStore) Save(_ context.Context, cred *domain.Credential) error {
	if cred == nil {
		return fmt.Errorf("%w: nil credential", domain.ErrInvalidInput)
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, data, 0600)
}

// Path returns the credential file path.
func (s *TokenStore) Path() string {
	return s.path
}
