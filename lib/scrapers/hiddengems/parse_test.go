package hiddengems

import (
	"testing"
	"time"

	"hiddengems-bot/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const fixture = `<!DOCTYPE html>
<html><body>
<div class="box"><h3>Runde</h3><p>42</p></div>
<div class="box"><h3>Datum</h3><p>17. August 2025</p></div>
<table>
	<tr><th>Name</th><th>Punkte</th></tr>
	<tr><td>irrelevant</td><td>0</td></tr>
</table>
<table>
	<tr>
		<th>Rang</th><th></th><th>Bot</th><th>Score</th><th>GU</th><th>CF</th><th>FC</th>
		<th>Autor / Team</th><th>Ort</th><th>Sprache</th><th>Commit</th>
	</tr>
	<tr>
		<td>1</td>
		<td class="emoji"><img src="/static/blackstar.png"></td>
		<td>ZitronenBot</td><td>812.5</td><td>97%</td><td>3</td><td>12</td>
		<td>Team Zitrone</td><td>Berlin</td>
		<td><img src="/static/languages/python-logo-256.png"></td>
		<td><a href="/commit/abc">abc</a></td>
	</tr>
	<tr class="spacer"><td colspan="11"></td></tr>
	<tr>
		<td>2</td>
		<td class="emoji">🔥</td>
		<td>Alpha</td><td>790</td><td>95%</td><td>4</td><td>10</td>
		<td>A1</td><td>Hamburg</td>
		<td><img src="/static/languages/go-logo-256.png"></td>
		<td><a href="/commit/def">def</a></td>
	</tr>
	<tr>
		<td>2</td>
		<td class="emoji"><img src="/static/otherstar.png">🌙</td>
		<td>Alpha</td><td>790</td><td>95%</td><td>2</td><td>9</td>
		<td>A2</td><td>München</td>
		<td>Rust</td>
		<td><a href="/commit/ghi">ghi</a></td>
	</tr>
	<tr>
		<td></td>
		<td class="emoji"></td>
		<td>LangsamBot</td><td>12</td><td>1%</td><td>0</td><td>0</td>
		<td>Solo</td><td>Köln</td>
		<td></td>
		<td><a href="/commit/jkl">jkl</a></td>
	</tr>
	<tr><td>5</td><td>broken</td><td>row</td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	snapshot := Parse(fixture)

	// header row, spacer and the short row do not produce records
	require.Len(t, snapshot.Records, 4)

	expectFirst := Record{
		Rank:   "1",
		Name:   "ZitronenBot",
		Marker: "⭐",
		Metrics: []Metric{
			{Key: "Score", Value: "812.5"},
			{Key: "GU", Value: "97%"},
			{Key: "CF", Value: "3"},
			{Key: "FC", Value: "12"},
		},
		Owner:    "Team Zitrone",
		Location: "Berlin",
		Language: "python",
	}
	if diff := cmp.Diff(expectFirst, snapshot.Records[0]); diff != "" {
		t.Fatalf("first record mismatch (-want +got):\n%s", diff)
	}

	// duplicate names stay separate records
	require.Equal(t, "Alpha", snapshot.Records[1].Name)
	require.Equal(t, "Alpha", snapshot.Records[2].Name)
	require.Equal(t, "A1", snapshot.Records[1].Owner)
	require.Equal(t, "A2", snapshot.Records[2].Owner)

	// an unknown icon source falls back to the cell text
	require.Equal(t, "🌙", snapshot.Records[2].Marker)
	// a language cell without an image falls back to lower-cased text
	require.Equal(t, "rust", snapshot.Records[2].Language)

	// empty rank cell maps to the sentinel
	require.Equal(t, RankDNQ, snapshot.Records[3].Rank)
	require.Equal(t, "", snapshot.Records[3].Language)

	require.NotNil(t, snapshot.FetchedAt)
	require.Equal(
		t,
		time.Date(2025, time.August, 17, 0, 0, 0, 0, timezone.Location),
		*snapshot.FetchedAt,
	)
}

func TestParseDeterministic(t *testing.T) {
	a := Parse(fixture)
	b := Parse(fixture)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("parse is not deterministic (-a +b):\n%s", diff)
	}
}

func TestParseNoTable(t *testing.T) {
	snapshot := Parse("<html><body><p>nothing here</p></body></html>")
	require.Empty(t, snapshot.Records)
	require.Nil(t, snapshot.FetchedAt)

	// a table without the expected headers is not a leaderboard
	snapshot = Parse("<table><tr><th>Name</th></tr><tr><td>x</td></tr></table>")
	require.Empty(t, snapshot.Records)
}

func TestParseGermanDate(t *testing.T) {
	cases := []struct {
		input  string
		expect *time.Time
	}{
		{"17. August 2025", timePtr(time.Date(2025, time.August, 17, 0, 0, 0, 0, timezone.Location))},
		{"1. März 2024", timePtr(time.Date(2024, time.March, 1, 0, 0, 0, 0, timezone.Location))},
		{"17 August 2025", timePtr(time.Date(2025, time.August, 17, 0, 0, 0, 0, timezone.Location))},
		{"August 2025", nil},
		{"17. Frimaire 2025", nil},
		{"", nil},
	}
	for _, test := range cases {
		got := ParseGermanDate(test.input)
		if test.expect == nil {
			require.Nil(t, got, "input %q", test.input)
			continue
		}
		require.NotNil(t, got, "input %q", test.input)
		require.Equal(t, *test.expect, *got, "input %q", test.input)
	}
}

func TestFormatGermanDate(t *testing.T) {
	d := time.Date(2025, time.August, 17, 0, 0, 0, 0, timezone.Location)
	require.Equal(t, "17. August 2025", FormatGermanDate(d))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
