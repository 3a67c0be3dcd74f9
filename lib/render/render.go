// Package render turns leaderboard records into deliverable output
// blocks, either chunked text tables or paginated PNG rasters.
package render

import (
	"hiddengems-bot/lib/scrapers/hiddengems"
)

type Kind int

const (
	KindText Kind = iota
	KindImage
)

// OutputBlock is one deliverable unit. Text blocks carry Body, image
// blocks carry PNG-encoded Bytes. The delivery boundary must transmit
// blocks in order and never merge or reorder them.
type OutputBlock struct {
	Kind  Kind
	Body  string
	Bytes []byte
}

// Limit applies the top-x row selection. Zero or negative means
// unlimited; order is the snapshot's own, there is no re-sorting.
func Limit(records []hiddengems.Record, topX int) []hiddengems.Record {
	if topX > 0 && topX < len(records) {
		return records[:topX]
	}
	return records
}

// metric column names in snapshot order; the header row fixes them
// once per snapshot so the first record is authoritative
func metricKeys(records []hiddengems.Record) []string {
	if len(records) == 0 {
		return nil
	}
	keys := make([]string, len(records[0].Metrics))
	for i, m := range records[0].Metrics {
		keys[i] = m.Key
	}
	return keys
}
