package hiddengems

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hiddengems-bot/lib/htmlutil"
	"hiddengems-bot/lib/restyutil"
	"hiddengems-bot/lib/timezone"

	"github.com/PuerkitoBio/goquery"
)

const (
	nameHeader     = "Bot"
	scoreHeader    = "Score"
	ownerHeader    = "Autor / Team"
	locationHeader = "Ort"
	languageHeader = "Sprache"

	// a well-formed row carries rank, marker, name, four metric
	// columns, owner, location, language and the trailing commit link
	minRowCells = 10
)

var debugOutput restyutil.InstrumentOutput

// SetDebugOutput persists the selected table markup and the parsed
// record list per parse for inspection. Off by default.
func SetDebugOutput(out restyutil.InstrumentOutput) {
	debugOutput = out
}

// Parse extracts a Snapshot from raw page markup. It is deterministic
// and never fails: markup without a usable table yields an empty
// Snapshot, malformed rows are skipped.
func Parse(markup string) Snapshot {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("failed to build document from markup", "err", err)
		return Snapshot{}
	}

	table := findLeaderboardTable(doc)
	if table == nil {
		return Snapshot{}
	}

	headers := headerNames(table)
	var records []Record

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("spacer") {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			// header row
			return
		}
		if cells.Length() < minRowCells {
			slog.Debug("skipping short row", "cells", cells.Length())
			return
		}
		records = append(records, parseRow(cells, headers))
	})

	if debugOutput != nil {
		tableHtml, err := goquery.OuterHtml(table)
		if err == nil {
			debugOutput.Write("leaderboard.html", tableHtml)
		}
		debugOutput.Write("leaderboard.txt", fmt.Sprintf("%+v", records))
	}

	return Snapshot{
		Records:   records,
		FetchedAt: parseDate(doc),
	}
}

// the page contains several tables, the leaderboard is the first one
// whose headers include both the name and the score column
func findLeaderboardTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		hasName := false
		hasScore := false
		t.Find("th").Each(func(_ int, th *goquery.Selection) {
			switch strings.TrimSpace(th.Text()) {
			case nameHeader:
				hasName = true
			case scoreHeader:
				hasScore = true
			}
		})
		if hasName && hasScore {
			table = t
			return false
		}
		return true
	})
	return table
}

func headerNames(table *goquery.Selection) []string {
	var headers []string
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		name := strings.TrimSpace(th.Text())
		if name == "" {
			name = fmt.Sprintf("Col%d", i)
		}
		headers = append(headers, name)
	})
	return headers
}

func parseRow(cells *goquery.Selection, headers []string) Record {
	var rec Record

	rank := strings.TrimSpace(cells.Eq(0).Text())
	if rank == "" {
		rank = RankDNQ
	}
	rec.Rank = rank

	// the last column is a commit link, it is never part of the record
	for i := 1; i < cells.Length()-1; i++ {
		cell := cells.Eq(i)

		if cell.HasClass("emoji") {
			rec.Marker = markerValue(cell)
			continue
		}

		header := fmt.Sprintf("Col%d", i)
		if i < len(headers) {
			header = headers[i]
		}
		value := cellValue(cell)

		switch header {
		case nameHeader:
			rec.Name = value
		case ownerHeader:
			rec.Owner = value
		case locationHeader:
			rec.Location = value
		case languageHeader:
			rec.Language = strings.ToLower(value)
		default:
			rec.Metrics = append(rec.Metrics, Metric{Key: header, Value: value})
		}
	}

	return rec
}

// one well-known icon source renders as a star, anything else falls
// back to the cell's plain text
func markerValue(cell *goquery.Selection) string {
	src, ok := cell.Find("img").Attr("src")
	if ok && strings.HasSuffix(src, "blackstar.png") {
		return "⭐"
	}
	return strings.TrimSpace(cell.Text())
}

// cells carrying an image encode their value in the image filename,
// `<slug>-logo-256.png` style; cells without one are plain text
func cellValue(cell *goquery.Selection) string {
	img := cell.Find("img")
	if img.Length() > 0 {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return ""
		}
		filename := src
		if idx := strings.LastIndex(src, "/"); idx >= 0 {
			filename = src[idx+1:]
		}
		slug, _, _ := strings.Cut(filename, "-")
		return slug
	}

	var text strings.Builder
	for _, node := range cell.Nodes {
		text.WriteString(htmlutil.GetText(node))
	}
	return htmlutil.CleanText(text.String())
}

var germanMonths = map[string]time.Month{
	"januar":    time.January,
	"februar":   time.February,
	"märz":      time.March,
	"april":     time.April,
	"mai":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"august":    time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"dezember":  time.December,
}

var germanMonthNames = []string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// the snapshot date sits in an auxiliary box labeled "Datum",
// formatted like "17. August 2025"
func parseDate(doc *goquery.Document) *time.Time {
	var date *time.Time
	doc.Find("div.box").EachWithBreak(func(_ int, box *goquery.Selection) bool {
		if strings.TrimSpace(box.Find("h3").Text()) != "Datum" {
			return true
		}
		date = ParseGermanDate(strings.TrimSpace(box.Find("p").Text()))
		return false
	})
	return date
}

// ParseGermanDate parses "17. August 2025" style dates, returning nil
// on anything it does not understand.
func ParseGermanDate(s string) *time.Time {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return nil
	}
	day, err := strconv.Atoi(strings.TrimSuffix(fields[0], "."))
	if err != nil {
		return nil
	}
	month, ok := germanMonths[strings.ToLower(fields[1])]
	if !ok {
		return nil
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, timezone.Location)
	return &t
}

func FormatGermanDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonthNames[t.Month()-1], t.Year())
}
