package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/adsync/internal/adapters/driven/config/file"
)

// loadSettings layers defaults, the TOML file, environment variables and
// command line flags, later layers winning.
func loadSettings(store *file.ConfigStore) (file.Settings, error) {
	s, err := store.Load()
	if err != nil {
		return s, err
	}

	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse environment: %w", err)
	}

	applyFlags(&s)
	return s, nil
}

func applyFlags(s *file.Settings) {
	if tokenFileFlag != "" {
		s.Files.TokenFile = tokenFileFlag
	}
	if platformCfgFlag != "" {
		s.Files.PlatformConfig = platformCfgFlag
	}
	if customerIDFlag != "" {
		s.Ads.CustomerID = customerIDFlag
	}
	if nonInteractiveArg {
		s.OAuth.Interactive = false
	}
}

// redacted returns a copy of s safe to print.
func redacted(s file.Settings) file.Settings {
	s.OAuth.ClientSecret = mask(s.OAuth.ClientSecret)
	s.Ads.DeveloperToken = mask(s.Ads.DeveloperToken)
	return s
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "********"
	}
	return "********" + secret[len(secret)-4:]
}
