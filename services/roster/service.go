// Package roster maintains the per-scope list of tracked leaderboard
// entries. A scope is a guild id, or a user id as private fallback.
package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/lib/textutil"
	"hiddengems-bot/services/roster/db"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/roster")

// Capacity is the hard per-scope entry limit.
const Capacity = 25

// TrackedEntity identifies one tracked leaderboard entry. Equality is
// structural over all three fields, that triple is the dedupe key.
// The json tags match the bot_data.json layout of earlier deployments.
type TrackedEntity struct {
	Name   string `json:"name"`
	Owner  string `json:"author"`
	Marker string `json:"emoji"`
}

type Ambiguity struct {
	Spec       string
	Candidates []hiddengems.Record
}

type NotFound struct {
	Spec        string
	Suggestions []string
}

// AddReport partitions every add spec into exactly one outcome.
// Partial success is normal and must be surfaced, not collapsed into
// a whole-batch failure.
type AddReport struct {
	Added          []TrackedEntity
	AlreadyTracked []TrackedEntity
	NeedsChoice    []Ambiguity
	NotFound       []NotFound
	LimitReached   []string
}

type Removed struct {
	// original 1-based position, for display
	Index  int
	Entity TrackedEntity
}

type RemoveReport struct {
	Removed []Removed
	Invalid []string
}

type Store struct {
	db  *sql.DB
	qry *db.Queries

	// serializes mutations per scope; reads go through single
	// statements and need no lock
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(database *sql.DB) *Store {
	return &Store{
		db:    database,
		qry:   db.New(database),
		locks: map[string]*sync.Mutex{},
	}
}

func (s *Store) scopeLock(scope string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[scope]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[scope] = lock
	}
	return lock
}

func (s *Store) List(ctx context.Context, scope string) ([]TrackedEntity, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()
	span.SetAttributes(attribute.String("scope", scope))

	return s.load(ctx, scope)
}

func (s *Store) load(ctx context.Context, scope string) ([]TrackedEntity, error) {
	raw, err := s.qry.GetRosterEntries(ctx, scope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []TrackedEntity
	err = json.Unmarshal([]byte(raw), &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, scope string, entries []TrackedEntity) error {
	if len(entries) == 0 {
		return s.qry.DeleteRoster(ctx, scope)
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.qry.SetRosterEntries(ctx, db.SetRosterEntriesParams{
		Scope:   scope,
		Entries: string(raw),
	})
}

// Add resolves every spec in rawSpec against the snapshot and appends
// the selected entries up to Capacity. The roster is durably saved
// before returning.
func (s *Store) Add(ctx context.Context, scope, rawSpec string, snapshot hiddengems.Snapshot) (AddReport, error) {
	ctx, span := tracer.Start(ctx, "Add")
	defer span.End()
	span.SetAttributes(
		attribute.String("scope", scope),
		attribute.String("spec", rawSpec),
	)

	lock := s.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.load(ctx, scope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AddReport{}, err
	}

	var report AddReport
	for _, spec := range ParseAddSpecs(rawSpec) {
		if len(entries) >= Capacity {
			report.LimitReached = append(report.LimitReached, spec.Raw)
			continue
		}

		candidates := matchByName(snapshot.Records, spec.Name)
		if len(candidates) == 0 {
			report.NotFound = append(report.NotFound, NotFound{
				Spec:        spec.Raw,
				Suggestions: suggestNames(snapshot.Records, spec.Name),
			})
			continue
		}

		var chosen hiddengems.Record
		if len(candidates) == 1 {
			// a supplied index is meaningless here and ignored
			chosen = candidates[0]
		} else if !spec.HasIndex {
			report.NeedsChoice = append(report.NeedsChoice, Ambiguity{
				Spec:       spec.Raw,
				Candidates: candidates,
			})
			continue
		} else {
			index := spec.Index
			if index < 1 {
				index = 1
			}
			if index > len(candidates) {
				index = len(candidates)
			}
			chosen = candidates[index-1]
		}

		entity := TrackedEntity{
			Name:   chosen.Name,
			Owner:  chosen.Owner,
			Marker: chosen.Marker,
		}
		if containsEntity(entries, entity) {
			report.AlreadyTracked = append(report.AlreadyTracked, entity)
			continue
		}

		entries = append(entries, entity)
		report.Added = append(report.Added, entity)
	}

	err = s.save(ctx, scope, entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AddReport{}, err
	}

	slog.DebugContext(
		ctx, "roster add",
		"scope", scope,
		"added", len(report.Added),
		"size", len(entries),
	)
	return report, nil
}

// Remove deletes the entries selected by rawSpec's index/range tokens.
// Tokens that do not parse, or reach outside the roster, are reported
// invalid without affecting their siblings.
func (s *Store) Remove(ctx context.Context, scope, rawSpec string) (RemoveReport, error) {
	ctx, span := tracer.Start(ctx, "Remove")
	defer span.End()
	span.SetAttributes(
		attribute.String("scope", scope),
		attribute.String("spec", rawSpec),
	)

	lock := s.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.load(ctx, scope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RemoveReport{}, err
	}

	var report RemoveReport
	selected := map[int]bool{}
	for _, token := range ParseRemoveTokens(rawSpec) {
		if !token.Parsed ||
			token.Start > token.End ||
			token.Start < 1 ||
			token.End > len(entries) {
			report.Invalid = append(report.Invalid, token.Raw)
			continue
		}
		for i := token.Start; i <= token.End; i++ {
			selected[i] = true
		}
	}

	indices := make([]int, 0, len(selected))
	for i := range selected {
		indices = append(indices, i)
	}
	// descending removal keeps the remaining indices stable
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))

	for _, i := range indices {
		report.Removed = append(report.Removed, Removed{
			Index:  i,
			Entity: entries[i-1],
		})
		entries = append(entries[:i-1], entries[i:]...)
	}
	// report in original roster order
	sort.Slice(report.Removed, func(a, b int) bool {
		return report.Removed[a].Index < report.Removed[b].Index
	})

	err = s.save(ctx, scope, entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RemoveReport{}, err
	}

	slog.DebugContext(
		ctx, "roster remove",
		"scope", scope,
		"removed", len(report.Removed),
		"invalid", len(report.Invalid),
	)
	return report, nil
}

// FilterTracked returns, in snapshot order, the records matching some
// tracked entry by exact (name, owner). An empty roster filters to
// nothing rather than everything.
func FilterTracked(records []hiddengems.Record, entries []TrackedEntity) []hiddengems.Record {
	if len(entries) == 0 {
		return nil
	}
	var filtered []hiddengems.Record
	for _, rec := range records {
		for _, entity := range entries {
			if rec.Name == entity.Name && rec.Owner == entity.Owner {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered
}

func matchByName(records []hiddengems.Record, name string) []hiddengems.Record {
	var matched []hiddengems.Record
	for _, rec := range records {
		if textutil.NormalizeName(rec.Name) == textutil.NormalizeName(name) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// nearest distinct names by edit distance, for friendlier not-found
// replies
func suggestNames(records []hiddengems.Record, name string) []string {
	const maxDistance = 2
	const maxSuggestions = 3

	var suggestions []string
	seen := map[string]bool{}
	for _, rec := range records {
		key := textutil.NormalizeName(rec.Name)
		if seen[key] {
			continue
		}
		seen[key] = true

		if matchr.Levenshtein(textutil.NormalizeName(name), key) <= maxDistance {
			suggestions = append(suggestions, rec.Name)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}

func containsEntity(entries []TrackedEntity, entity TrackedEntity) bool {
	for _, e := range entries {
		if e == entity {
			return true
		}
	}
	return false
}
