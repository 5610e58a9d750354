// Command adsync syncs email lists into Google Ads customer-match audiences.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/adsync/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
