// Package oauth implements the OAuth token exchanges against the
// authorization server on golang.org/x/oauth2.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
)

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// Google authorization server endpoints and the ads API scope.
const (
	GoogleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	GoogleTokenURL = "https://oauth2.googleapis.com/token"
	AdwordsScope   = "https://www.googleapis.com/auth/adwords"
)

// ExchangerConfig configures the authorization server.
// Zero fields take the Google defaults.
type ExchangerConfig struct {
	AuthURL  string
	TokenURL string
	Scopes   []string
	// LoginHint preselects the account on the consent screen.
	LoginHint string
}

// Exchanger performs authorization code and refresh token exchanges.
type Exchanger struct {
	cfg ExchangerConfig
}

// NewExchanger creates an exchanger.
func NewExchanger(cfg ExchangerConfig) *Exchanger {
	if cfg.AuthURL == "" {
		cfg.AuthURL = GoogleAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = GoogleTokenURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{AdwordsScope}
	}
	return &Exchanger{cfg: cfg}
}

func (e *Exchanger) config(client domain.OAuthClient, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       e.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   e.cfg.AuthURL,
			TokenURL:  e.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL builds the consent URL. Offline access and a forced consent
// prompt make the server issue a refresh token every time.
func (e *Exchanger) AuthCodeURL(client domain.OAuthClient, redirectURI, state, codeChallenge string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	if e.cfg.LoginHint != "" {
		opts = append(opts, oauth2.SetAuthURLParam("login_hint", e.cfg.LoginHint))
	}
	return e.config(client, redirectURI).AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens.
func (e *Exchanger) Exchange(
	ctx context.Context,
	client domain.OAuthClient,
	code, redirectURI, codeVerifier string,
) (*domain.Token, error) {
	tok, err := e.config(client, redirectURI).Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", describe(err))
	}
	return toDomain(tok), nil
}

// Refresh mints a new access token.
func (e *Exchanger) Refresh(ctx context.Context, client domain.OAuthClient, refreshToken string) (*domain.Token, error) {
	src := e.config(client, "").TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, describe(err))
	}
	return toDomain(tok), nil
}

// TokenURI returns the token endpoint.
func (e *Exchanger) TokenURI() string {
	return e.cfg.TokenURL
}

// Scopes returns the requested scopes.
func (e *Exchanger) Scopes() []string {
	return e.cfg.Scopes
}

// describe surfaces the OAuth error code of a token endpoint rejection.
func describe(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.ErrorCode != "" {
		if re.ErrorDescription != "" {
			return fmt.Errorf("%s: %s: %w", re.ErrorCode, re.ErrorDescription, err)
		}
		return fmt.Errorf("%s: %w", re.ErrorCode, err)
	}
	return err
}

func toDomain(tok *oauth2.Token) *domain.Token {
	out := &domain.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		out.Scopes = strings.Fields(scope)
	}
	return out
}
