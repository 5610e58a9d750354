package domain

import (
	"slices"
	"time"
)

// ExpiryLeeway is how long before its recorded expiry an access token is
// already treated as expired.
const ExpiryLeeway = 5 * time.Minute

// Credential is the OAuth client and token pair persisted between runs.
//
// The JSON layout matches Google's "authorized user" file so a token file
// written by other Google tooling loads unchanged.
type Credential struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenURI is the token endpoint the refresh token belongs to.
	TokenURI string `json:"token_uri,omitempty"`
	// ClientID identifies the OAuth application.
	ClientID string `json:"client_id"`
	// ClientSecret is the OAuth application secret.
	ClientSecret string `json:"client_secret"`
	// Scopes are the scopes granted to the token.
	Scopes []string `json:"scopes,omitempty"`
	// Expiry is when the access token expires. Zero means unknown.
	Expiry time.Time `json:"expiry,omitempty"`
}

// OAuthClient identifies an OAuth application.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

// Token is the result of an authorization code or refresh token exchange.
type Token struct {
	// AccessToken is the bearer token for API access.
	AccessToken string
	// RefreshToken is empty when the server did not issue or rotate one.
	RefreshToken string
	// TokenType is typically "Bearer".
	TokenType string
	// Expiry is when the access token expires.
	Expiry time.Time
	// Scopes are the granted scopes when the server reports them.
	Scopes []string
}

// Client returns the OAuth application the credential was issued to.
func (c *Credential) Client() OAuthClient {
	return OAuthClient{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// IsExpired returns true if the access token has expired at now.
// A token without a recorded expiry never expires.
func (c *Credential) IsExpired(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Before(c.Expiry.Add(-ExpiryLeeway))
}

// IsValid returns true if the access token can be used as-is at now.
func (c *Credential) IsValid(now time.Time) bool {
	return c.AccessToken != "" && !c.IsExpired(now)
}

// HasRefreshToken returns true if a refresh token is available.
func (c *Credential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// HasScopes reports whether the recorded scopes cover required.
// A credential without recorded scopes is accepted.
func (c *Credential) HasScopes(required []string) bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, s := range required {
		if !slices.Contains(c.Scopes, s) {
			return false
		}
	}
	return true
}

// Apply copies a refreshed token into the credential in place.
// Fields the server did not return are kept.
func (c *Credential) Apply(t *Token) {
	c.AccessToken = t.AccessToken
	c.Expiry = t.Expiry
	if t.RefreshToken != "" {
		c.RefreshToken = t.RefreshToken
	}
	if len(t.Scopes) > 0 {
		c.Scopes = t.Scopes
	}
}

// PlatformConfig holds the fields the Google Ads API client reads to
// authenticate every remote call.
type PlatformConfig struct {
	ClientID        string `yaml:"client_id"`
	ClientSecret    string `yaml:"client_secret"`
	RefreshToken    string `yaml:"refresh_token"`
	DeveloperToken  string `yaml:"developer_token,omitempty"`
	LoginCustomerID string `yaml:"login_customer_id,omitempty"`
}
