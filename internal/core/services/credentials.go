package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/core/ports/driving"
	"github.com/custodia-labs/adsync/internal/logger"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialResolver = (*CredentialService)(nil)

// CredentialConfig configures credential resolution.
type CredentialConfig struct {
	// ClientID and ClientSecret identify the OAuth application used for
	// interactive consent. Cached credentials refresh with their own client.
	ClientID     string
	ClientSecret string

	// DeveloperToken and LoginCustomerID are static ads client fields
	// mirrored into the platform config when set.
	DeveloperToken  string
	LoginCustomerID string

	// Interactive allows falling back to browser consent. When false a
	// credential that cannot be used or refreshed is an ErrAuthFailure.
	Interactive bool
}

// CredentialService resolves one valid credential per invocation.
//
// Resolution order: cached credential as-is, refreshed cached credential,
// interactive consent. Every new or refreshed credential is persisted
// before it is returned.
type CredentialService struct {
	cfg       CredentialConfig
	store     driven.CredentialStore
	platform  driven.PlatformConfigStore
	exchanger driven.TokenExchanger
	consent   driven.ConsentFlow
	now       func() time.Time
}

// NewCredentialService creates a new credential service.
func NewCredentialService(
	cfg CredentialConfig,
	store driven.CredentialStore,
	platform driven.PlatformConfigStore,
	exchanger driven.TokenExchanger,
	consent driven.ConsentFlow,
) *CredentialService {
	return &CredentialService{
		cfg:       cfg,
		store:     store,
		platform:  platform,
		exchanger: exchanger,
		consent:   consent,
		now:       time.Now,
	}
}

// Resolve returns a valid credential.
func (s *CredentialService) Resolve(ctx context.Context) (*domain.Credential, error) {
	logger.Section("Credentials")

	cred := s.loadCached(ctx)

	var refreshErr error
	if cred != nil {
		switch {
		case !cred.HasScopes(s.exchanger.Scopes()):
			logger.Warn("Cached credential lacks required scopes %v, requesting consent again", s.exchanger.Scopes())
		case cred.IsValid(s.now()):
			logger.Debug("Using cached credential from %s", s.store.Path())
			return cred, nil
		case cred.HasRefreshToken():
			logger.Info("Refreshing credentials")
			tok, err := s.exchanger.Refresh(ctx, s.clientFor(cred), cred.RefreshToken)
			if err == nil {
				cred.Apply(tok)
				if err := s.store.Save(ctx, cred); err != nil {
					return nil, fmt.Errorf("save refreshed credential: %w", err)
				}
				logger.Debug("Access token refreshed, expires %s", cred.Expiry.Format(time.RFC3339))
				return cred, nil
			}
			refreshErr = err
			logger.Warn("Token refresh failed: %v", err)
		default:
			logger.Debug("Cached credential expired and has no refresh token")
		}
	}

	if !s.cfg.Interactive {
		if refreshErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthFailure, refreshErr)
		}
		return nil, fmt.Errorf("%w: no usable cached credential and interactive consent is disabled", domain.ErrAuthFailure)
	}

	return s.authorize(ctx)
}

// loadCached returns the persisted credential, or nil when there is none
// that can be read.
func (s *CredentialService) loadCached(ctx context.Context) *domain.Credential {
	cred, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No cached credential at %s", s.store.Path())
		return nil
	}
	if err != nil {
		logger.Warn("Ignoring unreadable credential file %s: %v", s.store.Path(), err)
		return nil
	}
	return cred
}

// clientFor returns the OAuth client a cached credential refreshes with.
func (s *CredentialService) clientFor(cred *domain.Credential) domain.OAuthClient {
	if cred.ClientID != "" {
		return cred.Client()
	}
	return domain.OAuthClient{ClientID: s.cfg.ClientID, ClientSecret: s.cfg.ClientSecret}
}

// authorize runs the interactive consent flow and persists the result.
func (s *CredentialService) authorize(ctx context.Context) (*domain.Credential, error) {
	client := domain.OAuthClient{ClientID: s.cfg.ClientID, ClientSecret: s.cfg.ClientSecret}
	if client.ClientID == "" || client.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client id and client secret are required for authorization", domain.ErrAuthFailure)
	}

	req, err := newAuthRequest()
	if err != nil {
		return nil, err
	}

	logger.Info("Starting interactive authorization")
	code, redirectURI, err := s.consent.RequestConsent(ctx, req.State, func(redirectURI string) string {
		return s.exchanger.AuthCodeURL(client, redirectURI, req.State, req.Challenge)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthFailure, err)
	}

	tok, err := s.exchanger.Exchange(ctx, client, code, redirectURI, req.Verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange authorization code: %w", domain.ErrAuthFailure, err)
	}
	if tok.RefreshToken == "" {
		logger.Warn("Authorization server returned no refresh token; the next run will prompt again")
	}

	scopes := tok.Scopes
	if len(scopes) == 0 {
		scopes = s.exchanger.Scopes()
	}

	cred := &domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     s.exchanger.TokenURI(),
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		Scopes:       scopes,
		Expiry:       tok.Expiry,
	}
	if err := s.store.Save(ctx, cred); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	logger.Debug("Credential saved to %s", s.store.Path())

	return cred, nil
}

// SyncPlatformConfig mirrors the credential into the platform config.
func (s *CredentialService) SyncPlatformConfig(ctx context.Context, cred *domain.Credential) (bool, error) {
	if cred == nil || !cred.HasRefreshToken() {
		return false, fmt.Errorf("%w: credential has no refresh token", domain.ErrInvalidInput)
	}

	updated, err := s.platform.Update(ctx, domain.PlatformConfig{
		ClientID:        cred.ClientID,
		ClientSecret:    cred.ClientSecret,
		RefreshToken:    cred.RefreshToken,
		DeveloperToken:  s.cfg.DeveloperToken,
		LoginCustomerID: s.cfg.LoginCustomerID,
	})
	if err != nil {
		return false, fmt.Errorf("update platform config: %w", err)
	}

	if updated {
		logger.Info("Updated credentials in %s", s.platform.Path())
	} else {
		logger.Info("Credentials in %s are already up to date, skipping update", s.platform.Path())
	}
	return updated, nil
}
