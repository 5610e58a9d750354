package googleads

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// NewTokenSource returns a token source that refreshes with the platform
// config's client and refresh token. seed, when set, is used until it
// expires so a freshly resolved credential does not trigger an extra
// refresh.
func NewTokenSource(ctx context.Context, cfg domain.PlatformConfig, tokenURL string, seed *domain.Credential) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	refresher := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	var initial *oauth2.Token
	if seed != nil && seed.AccessToken != "" {
		initial = &oauth2.Token{
			AccessToken: seed.AccessToken,
			TokenType:   "Bearer",
			Expiry:      seedExpiry(seed),
		}
	}
	return oauth2.ReuseTokenSource(initial, refresher)
}

// seedExpiry applies the same leeway the credential check uses.
func seedExpiry(seed *domain.Credential) time.Time {
	if seed.Expiry.IsZero() {
		return seed.Expiry
	}
	return seed.Expiry.Add(-domain.ExpiryLeeway)
}
