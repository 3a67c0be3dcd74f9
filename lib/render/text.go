package render

import (
	"fmt"
	"strings"

	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/lib/textutil"
)

const (
	// discord rejects messages above this size
	maxBlockBytes = 2000

	nameWidth  = 24
	rankWidth  = 4
	idxWidth   = 3
	firstWidth = 6
	otherWidth = 7
)

// custom emoji snippets for the language column; rendering happens on
// the chat platform so these are plain strings here
var languageGlyphs = map[string]string{
	"ts":         "<:TS:1435771634072948908>",
	"rust":       "<:RUST:1437187917431832696>",
	"ruby":       "<:RUBY:1443010353465262142>",
	"python":     "<:PYTHON:1435771628473811067>",
	"php":        "<:PHP:1435771627282632709>",
	"perl":       "<:PERL:1435771626246377614>",
	"lua":        "<:LUA:1443010335450599554>",
	"julia":      "<:JULIA:1435771623738314804>",
	"js":         "<:JS:1435771622203068437>",
	"java":       "<:JAVA:1443010310008213555>",
	"go":         "<:GO:1435771619187621938>",
	"fsharp":     "<:FSHARP:1435771617975468092>",
	"dart":       "<:DART:1443010321974296699>",
	"csharp":     "<:CSHARP:1435771611117654026>",
	"cpp":        "<:CPP:1435771610211811490>",
	"c":          "<:C:1435771608361996471>",
	"powershell": "<:powershell:1437200535663935618>",
	hiddengems.NoLanguage: "<:noLanguage:1437201661645819966>",
}

func languageGlyph(tag string) string {
	glyph, ok := languageGlyphs[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return languageGlyphs[hiddengems.NoLanguage]
	}
	return glyph
}

func metricWidth(i int) int {
	if i == 0 {
		return firstWidth
	}
	return otherWidth
}

// RenderText renders records as a monospace table: one header line,
// one dash spacer, one line per record, packed into blocks of at most
// maxBlockBytes. A single line is never split across blocks.
func RenderText(records []hiddengems.Record, topX int) []OutputBlock {
	if len(records) == 0 {
		return []OutputBlock{{
			Kind: KindText,
			Body: "Leaderboard konnte nicht geladen werden.\n",
		}}
	}

	records = Limit(records, topX)
	keys := metricKeys(records)

	lines := make([]string, 0, len(records)+2)
	lines = append(lines, headerLine(keys), spacerLine(keys))
	for i, rec := range records {
		lines = append(lines, recordLine(i+1, rec, keys))
	}

	chunks := textutil.ChunkLines(lines, maxBlockBytes)
	blocks := make([]OutputBlock, len(chunks))
	for i, chunk := range chunks {
		blocks[i] = OutputBlock{Kind: KindText, Body: chunk}
	}
	return blocks
}

func headerLine(keys []string) string {
	var b strings.Builder
	b.WriteString("`Idx`|`Rang`| 🙂 |`")
	b.WriteString(textutil.Fit("Bot", nameWidth))
	b.WriteString("`")
	for i, key := range keys {
		b.WriteString("|`")
		b.WriteString(textutil.Fit(key, metricWidth(i)))
		b.WriteString("`")
	}
	b.WriteString("|`")
	b.WriteString(textutil.Fit("Autor / Team", nameWidth))
	b.WriteString("`|`")
	b.WriteString(textutil.Fit("Ort", nameWidth))
	b.WriteString("`|`lng`")
	return b.String()
}

func spacerLine(keys []string) string {
	var b strings.Builder
	b.WriteString("`" + strings.Repeat("-", idxWidth) + "`")
	b.WriteString("|`" + strings.Repeat("-", rankWidth) + "`")
	b.WriteString("|-`-`-")
	b.WriteString("|`" + strings.Repeat("-", nameWidth) + "`")
	for i := range keys {
		b.WriteString("|`" + strings.Repeat("-", metricWidth(i)) + "`")
	}
	b.WriteString("|`" + strings.Repeat("-", nameWidth) + "`")
	b.WriteString("|`" + strings.Repeat("-", nameWidth) + "`")
	b.WriteString("|`---`")
	return b.String()
}

func recordLine(idx int, rec hiddengems.Record, keys []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%*d`", idxWidth, idx)
	b.WriteString("|`" + textutil.Fit(rec.Rank, rankWidth) + "`")
	b.WriteString("| " + rec.Marker + " ")
	b.WriteString("|`" + textutil.Fit(rec.Name, nameWidth) + "`")
	for i, key := range keys {
		b.WriteString("|`" + textutil.Fit(rec.Metric(key), metricWidth(i)) + "`")
	}
	b.WriteString("|`" + textutil.Fit(rec.Owner, nameWidth) + "`")
	b.WriteString("|`" + textutil.Fit(rec.Location, nameWidth) + "`")
	b.WriteString("|" + languageGlyph(rec.Language))
	return b.String()
}
