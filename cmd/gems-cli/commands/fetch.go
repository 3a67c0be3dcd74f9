package commands

import (
	"fmt"
	"os"

	"hiddengems-bot/lib/scrapers/hiddengems"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches and parses the leaderboard and prints it as a table.",
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := loadSnapshot(cmd.Context())

		if snapshot.FetchedAt != nil {
			fmt.Printf("Leaderboard vom %s\n", hiddengems.FormatGermanDate(*snapshot.FetchedAt))
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)

		header := table.Row{"Rang", "", "Bot"}
		if len(snapshot.Records) > 0 {
			for _, m := range snapshot.Records[0].Metrics {
				header = append(header, m.Key)
			}
		}
		header = append(header, "Autor / Team", "Ort", "Sprache")
		t.AppendHeader(header)

		for _, rec := range snapshot.Records {
			row := table.Row{rec.Rank, rec.Marker, rec.Name}
			for _, m := range rec.Metrics {
				row = append(row, m.Value)
			}
			row = append(row, rec.Owner, rec.Location, rec.Language)
			t.AppendRow(row)
		}
		t.Render()
	},
}
