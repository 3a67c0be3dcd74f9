package discord

import (
	"testing"

	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/services/leaderboard"
	"hiddengems-bot/services/roster"

	"github.com/stretchr/testify/require"
)

func TestParseBoardArgs(t *testing.T) {
	topX, mode := parseBoardArgs("")
	require.Equal(t, 0, topX)
	require.Equal(t, leaderboard.ModeImage, mode)

	topX, mode = parseBoardArgs("10")
	require.Equal(t, 10, topX)
	require.Equal(t, leaderboard.ModeImage, mode)

	topX, mode = parseBoardArgs("text")
	require.Equal(t, 0, topX)
	require.Equal(t, leaderboard.ModeText, mode)

	topX, mode = parseBoardArgs("5 text")
	require.Equal(t, 5, topX)
	require.Equal(t, leaderboard.ModeText, mode)

	// junk arguments are ignored
	topX, mode = parseBoardArgs("soon -3")
	require.Equal(t, 0, topX)
	require.Equal(t, leaderboard.ModeImage, mode)
}

func TestSplitWord(t *testing.T) {
	word, rest := splitWord("track add Alpha, Beta 2")
	require.Equal(t, "track", word)
	require.Equal(t, "add Alpha, Beta 2", rest)

	word, rest = splitWord("  ping  ")
	require.Equal(t, "ping", word)
	require.Equal(t, "", rest)
}

func TestFormatAddReport(t *testing.T) {
	out := formatAddReport(roster.AddReport{
		Added:          []roster.TrackedEntity{{Name: "Alpha", Owner: "A2"}},
		AlreadyTracked: []roster.TrackedEntity{{Name: "Beta", Owner: "B1"}},
		NeedsChoice: []roster.Ambiguity{{
			Spec: "Gamma",
			Candidates: []hiddengems.Record{
				{Name: "Gamma", Owner: "G1"},
				{Name: "Gamma", Owner: "G2"},
			},
		}},
		NotFound:     []roster.NotFound{{Spec: "Delta", Suggestions: []string{"Delle"}}},
		LimitReached: []string{"Epsilon"},
	})

	require.Contains(t, out, "**Alpha** (A2) wird jetzt getrackt")
	require.Contains(t, out, "**Beta** (B1) wird bereits getrackt")
	require.Contains(t, out, "Mehrere Treffer für **Gamma**")
	require.Contains(t, out, "2: Gamma (G2)")
	require.Contains(t, out, "Meintest du: Delle?")
	require.Contains(t, out, "Limit von 25")

	require.Equal(t, "Nichts zu tun.", formatAddReport(roster.AddReport{}))
}

func TestFormatRemoveReport(t *testing.T) {
	out := formatRemoveReport(roster.RemoveReport{
		Removed: []roster.Removed{
			{Index: 2, Entity: roster.TrackedEntity{Name: "Beta", Owner: "B1"}},
		},
		Invalid: []string{"x"},
	})
	require.Contains(t, out, "2. **Beta** (B1) wird nicht mehr getrackt.")
	require.Contains(t, out, "`x` ist keine gültige Nummer.")
}

func TestFormatRosterList(t *testing.T) {
	require.Equal(t, "Es werden gerade keine Bots getrackt.", formatRosterList(nil))

	out := formatRosterList([]roster.TrackedEntity{
		{Name: "Alpha", Owner: "A1", Marker: "⭐"},
		{Name: "Beta", Owner: "B1"},
	})
	require.Contains(t, out, "1. Alpha ⭐ — A1")
	require.Contains(t, out, "2. Beta — B1")
}
