package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
	"google.golang.org/api/option"

	"github.com/custodia-labs/adsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/adsync/internal/adapters/driven/oauth"
	csvrecords "github.com/custodia-labs/adsync/internal/adapters/driven/records/csv"
	"github.com/custodia-labs/adsync/internal/adapters/driven/storage/sqlite"
	consent "github.com/custodia-labs/adsync/internal/adapters/driving/oauth"
	"github.com/custodia-labs/adsync/internal/connectors/googleads"
	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/core/ports/driving"
	"github.com/custodia-labs/adsync/internal/core/services"
	"github.com/custodia-labs/adsync/internal/logger"
)

// runHistory lists recorded sync runs.
type runHistory interface {
	History(ctx context.Context, limit int) ([]domain.SyncJob, error)
}

// Service constructors. Tests replace them with mocks.
var (
	newCredentialResolver = defaultCredentialResolver
	newAudienceSync       = defaultAudienceSync
	newRecordSource       = defaultRecordSource
	newRunHistory         = defaultRunHistory
)

// closer releases resources held by a constructed service.
type closer func() error

func noClose() error { return nil }

func defaultCredentialResolver(s file.Settings) (driving.CredentialResolver, error) {
	var browser func(string) error
	if term.IsTerminal(int(os.Stdout.Fd())) {
		browser = consent.OpenBrowser
	}

	return services.NewCredentialService(
		services.CredentialConfig{
			ClientID:        s.OAuth.ClientID,
			ClientSecret:    s.OAuth.ClientSecret,
			DeveloperToken:  s.Ads.DeveloperToken,
			LoginCustomerID: s.Ads.LoginCustomerID,
			Interactive:     s.OAuth.Interactive,
		},
		file.NewTokenStore(s.Files.TokenFile),
		file.NewPlatformConfigStore(s.Files.PlatformConfig),
		oauth.NewExchanger(oauth.ExchangerConfig{LoginHint: s.OAuth.LoginHint}),
		consent.NewLocalConsentFlow(s.OAuth.CallbackPort, os.Stdout, browser),
	), nil
}

// defaultAudienceSync builds the ads client from the platform config, which
// the credential has just been mirrored into.
func defaultAudienceSync(ctx context.Context, s file.Settings, cred *domain.Credential) (driving.AudienceSync, closer, error) {
	if s.Ads.CustomerID == "" {
		return nil, nil, fmt.Errorf("%w: customer id is required (--customer-id or CUSTOMER_ID)", domain.ErrInvalidInput)
	}

	platformCfg, err := file.NewPlatformConfigStore(s.Files.PlatformConfig).Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load platform config: %w", err)
	}
	developerToken := platformCfg.DeveloperToken
	if developerToken == "" {
		developerToken = s.Ads.DeveloperToken
	}
	loginCustomerID := platformCfg.LoginCustomerID
	if loginCustomerID == "" {
		loginCustomerID = s.Ads.LoginCustomerID
	}

	tokenURL := cred.TokenURI
	if tokenURL == "" {
		tokenURL = oauth.GoogleTokenURL
	}
	ts := googleads.NewTokenSource(ctx, *platformCfg, tokenURL, cred)

	client, err := googleads.NewClient(ctx, googleads.Config{
		DeveloperToken:  developerToken,
		LoginCustomerID: loginCustomerID,
	}, option.WithTokenSource(ts))
	if err != nil {
		return nil, nil, err
	}

	ledger, closeLedger := openLedger(s)
	svc := services.NewAudienceSyncService(services.SyncConfig{CustomerID: s.Ads.CustomerID}, client, ledger)
	return svc, closeLedger, nil
}

func defaultRecordSource(s file.Settings) driven.RecordSource {
	return csvrecords.NewReader(s.Files.Input, s.Sync.EmailColumn)
}

func defaultRunHistory(s file.Settings) (runHistory, closer, error) {
	if s.Files.Ledger == "" {
		return nil, nil, errors.New("run history is disabled (files.ledger is empty)")
	}
	store, err := sqlite.NewStore(s.Files.Ledger)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewAudienceSyncService(services.SyncConfig{CustomerID: s.Ads.CustomerID}, nil, store.RunLedger())
	return svc, store.Close, nil
}

// openLedger opens the run ledger. A ledger that cannot be opened disables
// run history for this invocation.
func openLedger(s file.Settings) (driven.RunLedger, closer) {
	if s.Files.Ledger == "" {
		return nil, noClose
	}
	store, err := sqlite.NewStore(s.Files.Ledger)
	if err != nil {
		logger.Warn("Run history disabled: %v", err)
		return nil, noClose
	}
	return store.RunLedger(), store.Close
}
