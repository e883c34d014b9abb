// Package daily tracks daily challenge attempts and the per-day leaderboard.
//
// All state lives in a single document under one storage key:
//
//	{"leaderboards": {"20261016": [{"name":..., "score":..., "timestamp":...}]},
//	 "played": {"20261016": true}}
//
// Every operation loads the document, applies its change and writes it back.
// An unreadable document is treated as empty so the game stays playable.
package daily

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/playperu/defenceguesser/internal/defence"
	"github.com/playperu/defenceguesser/internal/shuffle"
)

const (
	// StorageKey namespaces the daily document in the key-value store.
	StorageKey = "defenceGuesserDaily"

	// MaxEntries is the number of leaderboard places kept per day.
	MaxEntries = 5

	// DefaultRetentionDays is how far back Prune keeps data.
	DefaultRetentionDays = 7
)

// Store persists JSON-serialisable documents by key. Get reports false when
// the key has never been written.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Put(ctx context.Context, key string, v any) error
}

// Data is the persisted document.
type Data struct {
	Leaderboards map[string][]defence.LeaderboardEntry `json:"leaderboards"`
	Played       map[string]bool                       `json:"played"`
}

func emptyData() Data {
	return Data{
		Leaderboards: map[string][]defence.LeaderboardEntry{},
		Played:       map[string]bool{},
	}
}

type Registry struct {
	store  Store
	key    string
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location

	mu sync.Mutex
}

type Option func(*Registry)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLocation sets the time zone that decides when a day starts.
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) { r.loc = loc }
}

// WithKey overrides StorageKey, letting several players share one store.
func WithKey(key string) Option {
	return func(r *Registry) { r.key = key }
}

func NewRegistry(store Store, logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		key:    StorageKey,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the current time in the registry's time zone.
func (r *Registry) Today() time.Time {
	return r.now().In(r.loc)
}

// TodayKey returns today's date key, e.g. "20261016".
func (r *Registry) TodayKey() string {
	return shuffle.DateKey(r.Today())
}

// TodaySeed returns today's date key as the integer seed for the daily
// equipment shuffle.
func (r *Registry) TodaySeed() int {
	return shuffle.DailySeed(r.Today())
}

func (r *Registry) HasPlayedToday(ctx context.Context) bool {
	return r.HasPlayed(ctx, r.TodayKey())
}

func (r *Registry) HasPlayed(ctx context.Context, dateKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx).Played[dateKey]
}

// RecordAttempt marks dateKey as played. Marking twice is a no-op.
func (r *Registry) RecordAttempt(ctx context.Context, dateKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.load(ctx)
	if data.Played[dateKey] {
		return nil
	}
	data.Played[dateKey] = true
	return r.save(ctx, data)
}

// SubmitScore records a score on dateKey's leaderboard and marks the day as
// played. Only the top MaxEntries survive; ties go to the earlier entry.
func (r *Registry) SubmitScore(ctx context.Context, dateKey, name string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.load(ctx)
	board := append(data.Leaderboards[dateKey], defence.LeaderboardEntry{
		Name:      name,
		Score:     score,
		Timestamp: r.now().UnixMilli(),
	})
	data.Leaderboards[dateKey] = rank(board)
	data.Played[dateKey] = true
	return r.save(ctx, data)
}

func rank(board []defence.LeaderboardEntry) []defence.LeaderboardEntry {
	slices.SortStableFunc(board, func(a, b defence.LeaderboardEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	if len(board) > MaxEntries {
		board = board[:MaxEntries]
	}
	return board
}

// Leaderboard returns dateKey's entries, best first. It never returns nil.
func (r *Registry) Leaderboard(ctx context.Context, dateKey string) []defence.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	board := r.load(ctx).Leaderboards[dateKey]
	if board == nil {
		return []defence.LeaderboardEntry{}
	}
	return board
}

// Placement returns the 1-based position of the first entry on dateKey's
// leaderboard with the given name and score.
func (r *Registry) Placement(ctx context.Context, dateKey, name string, score int) (int, bool) {
	for i, e := range r.Leaderboard(ctx, dateKey) {
		if e.Name == name && e.Score == score {
			return i + 1, true
		}
	}
	return 0, false
}

// Prune drops leaderboards and played marks whose date key is below
// today's key minus retentionDays. The subtraction is done on the integer
// key, not the calendar: early in a month the window shrinks (on 20261101
// the cutoff is 20261094, which drops all of October). Keys that are not
// integers are left alone. It returns the number of keys removed.
func (r *Registry) Prune(ctx context.Context, retentionDays int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.TodaySeed() - retentionDays
	data := r.load(ctx)

	removed := 0
	for key := range data.Leaderboards {
		if olderThan(key, cutoff) {
			delete(data.Leaderboards, key)
			removed++
		}
	}
	for key := range data.Played {
		if olderThan(key, cutoff) {
			delete(data.Played, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save(ctx, data)
}

func olderThan(key string, cutoff int) bool {
	n, err := strconv.Atoi(key)
	return err == nil && n < cutoff
}

// Snapshot returns a copy of the whole document.
func (r *Registry) Snapshot(ctx context.Context) Data {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Registry) load(ctx context.Context) Data {
	var data Data
	found, err := r.store.Get(ctx, r.key, &data)
	if err != nil {
		r.logger.Warn("daily data unreadable, starting empty", "key", r.key, "error", err)
		return emptyData()
	}
	if !found {
		return emptyData()
	}
	if data.Leaderboards == nil {
		data.Leaderboards = map[string][]defence.LeaderboardEntry{}
	}
	if data.Played == nil {
		data.Played = map[string]bool{}
	}
	return data
}

func (r *Registry) save(ctx context.Context, data Data) error {
	if err := r.store.Put(ctx, r.key, data); err != nil {
		r.logger.Error("saving daily data failed", "key", r.key, "error", err)
		return fmt.Errorf("saving daily data: %w", err)
	}
	return nil
}
