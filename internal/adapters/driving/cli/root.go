// Package cli provides the adsync command line interface built on cobra.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/adsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/adsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose           bool
	configDirFlag     string
	tokenFileFlag     string
	platformCfgFlag   string
	customerIDFlag    string
	nonInteractiveArg bool
)

// settings is the effective configuration, resolved before every command.
var settings file.Settings

// configStore is the app config file backing settings.
var configStore *file.ConfigStore

var rootCmd = &cobra.Command{
	Use:   "adsync",
	Short: "Sync email lists into Google Ads customer-match audiences",
	Long: `adsync uploads hashed email addresses from a CSV file into a Google Ads
customer-match user list, creating the list on first use.

Credentials are obtained through a browser consent flow once and refreshed
automatically afterwards.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configDirFlag, "config-dir", "", "Configuration directory (default ~/.adsync)")
	flags.StringVar(&tokenFileFlag, "token-file", "", "Credential file (default token.json)")
	flags.StringVar(&platformCfgFlag, "platform-config", "", "Google Ads client configuration (default google-ads.yaml)")
	flags.StringVar(&customerIDFlag, "customer-id", "", "Google Ads customer id")
	flags.BoolVar(&nonInteractiveArg, "non-interactive", false, "Fail instead of opening a browser for consent")
}

// prepare configures logging and resolves settings.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	store, err := file.NewConfigStore(configDirFlag)
	if err != nil {
		return err
	}
	resolved, err := loadSettings(store)
	if err != nil {
		return err
	}
	configStore = store
	settings = resolved
	return nil
}

// Execute runs the root command. Ctrl-C cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
