// Package hiddengems scrapes the hidden gems scrims leaderboard page
// into typed, ordered records.
package hiddengems

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/hiddengems")

// rank sentinel for rows whose rank cell is empty (did not qualify)
const RankDNQ = "DNQ."

// language sentinel used for icon lookup when a row carries no
// recognizable language tag
const NoLanguage = "noLanguage"

type Metric struct {
	Key   string
	Value string
}

// Record is one row of the leaderboard table. Metric values stay
// verbatim strings, numeric coercion is the consumer's problem.
type Record struct {
	Rank     string
	Name     string
	Marker   string
	Metrics  []Metric
	Owner    string
	Location string
	Language string
}

func (r Record) Metric(key string) string {
	for _, m := range r.Metrics {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}

// Snapshot is one immutable capture of the leaderboard. FetchedAt is
// nil when the page carries no parseable date, which is not an error.
type Snapshot struct {
	Records   []Record
	FetchedAt *time.Time
}

// FetchError wraps any transport failure or non-success status. It is
// the only error the scraper propagates; an unusable page parses into
// an empty Snapshot instead.
type FetchError struct {
	Cause  error
	Status int
}

func (e FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to fetch leaderboard: %s", e.Cause.Error())
	}
	return fmt.Sprintf("failed to fetch leaderboard: status %d", e.Status)
}

func (e FetchError) Unwrap() error {
	return e.Cause
}
