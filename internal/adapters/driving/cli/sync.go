package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload a CSV of emails to a customer-match audience",
	Long: `Reads email addresses from a CSV file, hashes them and uploads them to
the named Google Ads user list through an offline user data job. The list is
created if no list with that exact name exists.

Rows without an email are skipped. The job is started but not awaited; the
platform processes it in the background.

Examples:
  adsync sync --audience "test result emails" --input emails.csv
  adsync sync --audience newsletter --email-column contact_email`,
	RunE: runSync,
}

var (
	syncAudience    string
	syncInput       string
	syncEmailColumn string
)

func init() {
	syncCmd.Flags().StringVarP(&syncAudience, "audience", "a", "", "Audience (user list) name")
	syncCmd.Flags().StringVarP(&syncInput, "input", "i", "", "Input CSV file (default emails.csv)")
	syncCmd.Flags().StringVar(&syncEmailColumn, "email-column", "", "CSV header of the email column (default Email)")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	s := settings
	if syncAudience != "" {
		s.Sync.Audience = syncAudience
	}
	if syncInput != "" {
		s.Files.Input = syncInput
	}
	if syncEmailColumn != "" {
		s.Sync.EmailColumn = syncEmailColumn
	}
	if s.Sync.Audience == "" {
		return fmt.Errorf("%w: --audience is required", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()

	// Read input first so a bad file fails before any consent prompt.
	records, err := newRecordSource(s).Records(ctx)
	if err != nil {
		return err
	}

	resolver, err := newCredentialResolver(s)
	if err != nil {
		return err
	}
	cred, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := resolver.SyncPlatformConfig(ctx, cred); err != nil {
		return err
	}

	svc, closeFn, err := newAudienceSync(ctx, s, cred)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	cmd.Printf("Syncing %d rows from %s into %q...\n", len(records), s.Files.Input, s.Sync.Audience)
	report, err := svc.Sync(ctx, s.Sync.Audience, records)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, r *domain.SyncReport) {
	audience := r.AudienceResourceName
	if r.AudienceCreated {
		audience += styles.Muted.Render(" (created)")
	}

	cmd.Println(styles.Title.Render("Sync " + r.RunID))
	cmd.Println(field("Audience", audience))
	if r.JobResourceName != "" {
		cmd.Println(field("Job", r.JobResourceName))
	}
	cmd.Println(field("Submitted", fmt.Sprintf("%d", r.Submitted)))
	cmd.Println(field("Skipped", fmt.Sprintf("%d", r.Skipped)))
	cmd.Println(field("Status", renderStatus(r.Status)))
}

func renderStatus(status domain.JobStatus) string {
	switch status {
	case domain.JobRunning:
		return styles.Success.Render(string(status))
	case domain.JobFailed:
		return styles.Error.Render(string(status))
	case "":
		return styles.Muted.Render("not started")
	default:
		return styles.Warning.Render(string(status))
	}
}
