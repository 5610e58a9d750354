package cli

import (
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Google Ads credentials",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain credentials and update the Google Ads client configuration",
	Long: `Obtains a valid credential, reusing or refreshing the cached one when
possible and opening the browser consent flow otherwise, then writes the
client id, client secret and refresh token into the Google Ads client
configuration file.

Examples:
  adsync auth login
  CLIENT_ID=xxx CLIENT_SECRET=yyy adsync auth login --show-token`,
	RunE: runAuthLogin,
}

var showToken bool

func init() {
	authLoginCmd.Flags().BoolVar(&showToken, "show-token", false, "Print the full refresh token")

	authCmd.AddCommand(authLoginCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	resolver, err := newCredentialResolver(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cred, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	updated, err := resolver.SyncPlatformConfig(ctx, cred)
	if err != nil {
		return err
	}

	token := mask(cred.RefreshToken)
	if showToken {
		token = cred.RefreshToken
	}

	cmd.Println(styles.Success.Render("Authorized."))
	cmd.Println(field("Refresh token", token))
	if updated {
		cmd.Println(field("Platform config", settings.Files.PlatformConfig+" (updated)"))
	} else {
		cmd.Println(field("Platform config", settings.Files.PlatformConfig+" (already up to date)"))
	}
	return nil
}
