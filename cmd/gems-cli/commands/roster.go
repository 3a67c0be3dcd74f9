package commands

import (
	"fmt"
	"os"
	"strings"

	"hiddengems-bot/lib/configutil/sqlitecfg"
	"hiddengems-bot/lib/util/serviceutil"
	"hiddengems-bot/services/roster"
	rosterdb "hiddengems-bot/services/roster/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	rosterDb    *string
	rosterScope *string
)

func init() {
	rosterDb = rosterCmd.PersistentFlags().String("db", "hiddengems.db", "The roster database.")
	rosterScope = rosterCmd.PersistentFlags().String("scope", "", "The guild or user id owning the roster.")
	rosterCmd.MarkPersistentFlagRequired("scope")

	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterAddCmd)
	rosterCmd.AddCommand(rosterRemoveCmd)
	rootCmd.AddCommand(rosterCmd)
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Inspects and edits the tracked-bot roster of a scope.",
}

func openRoster() *roster.Store {
	db, err := sqlitecfg.Struct{File: *rosterDb}.OpenDB(rosterdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	return roster.NewStore(db)
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the tracked entries of the scope.",
	Run: func(cmd *cobra.Command, args []string) {
		store := openRoster()
		entries, err := store.List(cmd.Context(), *rosterScope)
		if err != nil {
			serviceutil.Fatal("failed to list roster", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Bot", "Autor / Team", "Emoji"})
		for i, entity := range entries {
			t.AppendRow(table.Row{i + 1, entity.Name, entity.Owner, entity.Marker})
		}
		t.Render()
	},
}

var rosterAddCmd = &cobra.Command{
	Use:   "add <spec>...",
	Short: "Adds entries by name, resolved against the current leaderboard.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openRoster()
		snapshot := loadSnapshot(cmd.Context())

		report, err := store.Add(cmd.Context(), *rosterScope, strings.Join(args, " "), snapshot)
		if err != nil {
			serviceutil.Fatal("failed to add entries", err)
		}

		for _, entity := range report.Added {
			fmt.Printf("added %s (%s)\n", entity.Name, entity.Owner)
		}
		for _, entity := range report.AlreadyTracked {
			fmt.Printf("already tracked: %s (%s)\n", entity.Name, entity.Owner)
		}
		for _, ambiguity := range report.NeedsChoice {
			fmt.Printf("ambiguous: %s (%d candidates, append an index to pick one)\n",
				ambiguity.Spec, len(ambiguity.Candidates))
		}
		for _, notFound := range report.NotFound {
			fmt.Printf("not found: %s\n", notFound.Spec)
		}
		for _, spec := range report.LimitReached {
			fmt.Printf("limit reached, skipped: %s\n", spec)
		}
	},
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove <index|range>...",
	Short: "Removes entries by 1-based index or range (e.g. 1, 3-5).",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openRoster()

		report, err := store.Remove(cmd.Context(), *rosterScope, strings.Join(args, " "))
		if err != nil {
			serviceutil.Fatal("failed to remove entries", err)
		}

		for _, removed := range report.Removed {
			fmt.Printf("removed %d. %s (%s)\n", removed.Index, removed.Entity.Name, removed.Entity.Owner)
		}
		for _, token := range report.Invalid {
			fmt.Printf("invalid token: %s\n", token)
		}
	},
}
