package driven

import (
	"context"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// TokenExchanger talks to the OAuth authorization server.
type TokenExchanger interface {
	// AuthCodeURL builds the consent URL for client, requesting offline
	// access and carrying the state and S256 PKCE challenge.
	AuthCodeURL(client domain.OAuthClient, redirectURI, state, codeChallenge string) string

	// Exchange trades an authorization code for a token pair.
	Exchange(ctx context.Context, client domain.OAuthClient, code, redirectURI, codeVerifier string) (*domain.Token, error)

	// Refresh mints a new access token from refreshToken.
	// Returns an error wrapping domain.ErrTokenRefreshFailed when the server
	// rejects the refresh token.
	Refresh(ctx context.Context, client domain.OAuthClient, refreshToken string) (*domain.Token, error)

	// TokenURI returns the token endpoint, recorded on persisted credentials.
	TokenURI() string

	// Scopes returns the scopes requested during consent.
	Scopes() []string
}

// ConsentFlow runs the interactive part of the authorization code flow.
type ConsentFlow interface {
	// RequestConsent opens a local callback listener, presents the URL built
	// by authURL (given the listener's redirect URI) to the user and blocks
	// until the authorization server redirects back. The callback must carry
	// state. Returns the authorization code and the redirect URI used.
	RequestConsent(ctx context.Context, state string, authURL func(redirectURI string) string) (code, redirectURI string, err error)
}
