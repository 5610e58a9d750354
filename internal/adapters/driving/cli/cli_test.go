package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/adsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/core/ports/driving"
)

// --- Mock implementations for CLI testing ---

type mockResolver struct {
	cred       *domain.Credential
	resolveErr error
	updated    bool
	resolved   int
	synced     int
}

func (m *mockResolver) Resolve(_ context.Context) (*domain.Credential, error) {
	m.resolved++
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	return m.cred, nil
}

func (m *mockResolver) SyncPlatformConfig(_ context.Context, _ *domain.Credential) (bool, error) {
	m.synced++
	return m.updated, nil
}

type mockAudienceSync struct {
	report   *domain.SyncReport
	err      error
	name     string
	records  []domain.IdentifierRecord
	runs     []domain.SyncJob
	syncRuns int
}

func (m *mockAudienceSync) FindOrCreateAudience(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (m *mockAudienceSync) SubmitAudienceSync(
	_ context.Context, _ string, _ []domain.IdentifierRecord,
) (*domain.SyncJob, error) {
	return nil, nil
}

func (m *mockAudienceSync) Sync(_ context.Context, name string, records []domain.IdentifierRecord) (*domain.SyncReport, error) {
	m.syncRuns++
	m.name = name
	m.records = records
	return m.report, m.err
}

func (m *mockAudienceSync) History(_ context.Context, _ int) ([]domain.SyncJob, error) {
	return m.runs, nil
}

type mockRecords struct {
	records []domain.IdentifierRecord
	err     error
}

func (m *mockRecords) Records(_ context.Context) ([]domain.IdentifierRecord, error) {
	return m.records, m.err
}

// cliFixture holds the mocks wired into the command constructors.
type cliFixture struct {
	resolver *mockResolver
	sync     *mockAudienceSync
	records  *mockRecords
	settings file.Settings // last settings seen by a constructor
}

// setupCLITest swaps the service constructors for mocks and isolates the
// config directory. Returned cleanup restores everything.
func setupCLITest(t *testing.T) *cliFixture {
	t.Helper()

	f := &cliFixture{
		resolver: &mockResolver{cred: &domain.Credential{
			AccessToken:  "access",
			RefreshToken: "1//0abcdefghijklmnop",
			ClientID:     "id",
			ClientSecret: "secret",
		}},
		sync:    &mockAudienceSync{},
		records: &mockRecords{},
	}

	oldResolver, oldSync, oldRecords, oldHistory := newCredentialResolver, newAudienceSync, newRecordSource, newRunHistory
	newCredentialResolver = func(s file.Settings) (driving.CredentialResolver, error) {
		f.settings = s
		return f.resolver, nil
	}
	newAudienceSync = func(_ context.Context, s file.Settings, _ *domain.Credential) (driving.AudienceSync, closer, error) {
		f.settings = s
		return f.sync, noClose, nil
	}
	newRecordSource = func(s file.Settings) driven.RecordSource {
		f.settings = s
		return f.records
	}
	newRunHistory = func(s file.Settings) (runHistory, closer, error) {
		f.settings = s
		return f.sync, noClose, nil
	}

	configDirFlag = t.TempDir()
	t.Setenv("CUSTOMER_ID", "")
	t.Setenv("CLIENT_ID", "")

	t.Cleanup(func() {
		newCredentialResolver, newAudienceSync, newRecordSource, newRunHistory = oldResolver, oldSync, oldRecords, oldHistory
		configDirFlag, tokenFileFlag, platformCfgFlag, customerIDFlag = "", "", "", ""
		nonInteractiveArg, verbose, showToken = false, false, false
		syncAudience, syncInput, syncEmailColumn = "", "", ""
		runsLimit = 20
		rootCmd.SetArgs(nil)
	})
	return f
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func requireContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		require.Contains(t, out, p)
	}
}
