package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gems-cli",
	Short: "gems-cli inspects the Hidden Gems leaderboard and the roster database from the terminal.",
}

var (
	sourceUrl    *string
	sourceFile   *string
	sourceBypass *bool
)

func init() {
	sourceUrl = rootCmd.PersistentFlags().String("url", "", "Leaderboard page url. Defaults to the public page.")
	sourceFile = rootCmd.PersistentFlags().String("file", "", "Parse a local HTML file instead of fetching.")
	sourceBypass = rootCmd.PersistentFlags().Bool("bypass", false, "Enable the cloudflare bypass transport.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSnapshot(ctx context.Context) hiddengems.Snapshot {
	if *sourceFile != "" {
		markup, err := os.ReadFile(*sourceFile)
		if err != nil {
			serviceutil.Fatal("failed to read file", err)
		}
		return hiddengems.Parse(string(markup))
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	client := hiddengems.NewClient(hiddengems.ClientOptions{
		Url:              *sourceUrl,
		CloudflareBypass: *sourceBypass,
	})
	snapshot, err := client.Fetch(ctx)
	if err != nil {
		serviceutil.Fatal("failed to fetch leaderboard", err)
	}
	return snapshot
}
