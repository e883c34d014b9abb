package server

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/playperu/defenceguesser/internal/catalog"
	"github.com/playperu/defenceguesser/internal/daily"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// validSlug reports whether s can name a profile. "admin" is reserved for
// the admin API.
func validSlug(s string) bool {
	return s != "admin" && slugPattern.MatchString(s)
}

// Profile is the per-player state that lives outside any single game: the
// daily challenge record and the practice browser.
type Profile struct {
	Slug    string
	Daily   *daily.Registry
	Browser *catalog.Browser
}

func dailyKey(slug string) string {
	return daily.StorageKey + "/" + slug
}

// Profiles lazily creates one Profile per slug over a shared store.
type Profiles struct {
	store   Store
	catalog *catalog.Catalog
	logger  *slog.Logger
	loc     *time.Location
	now     func() time.Time

	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewProfiles(store Store, c *catalog.Catalog, logger *slog.Logger, loc *time.Location) *Profiles {
	return &Profiles{
		store:    store,
		catalog:  c,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		profiles: make(map[string]*Profile),
	}
}

func (p *Profiles) Get(slug string) *Profile {
	p.mu.RLock()
	prof, ok := p.profiles[slug]
	p.mu.RUnlock()
	if ok {
		return prof
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock.
	if prof, ok := p.profiles[slug]; ok {
		return prof
	}

	prof = &Profile{
		Slug: slug,
		Daily: daily.NewRegistry(p.store, p.logger.With("profile", slug),
			daily.WithKey(dailyKey(slug)),
			daily.WithLocation(p.loc),
			daily.WithClock(p.now),
		),
		Browser: catalog.NewBrowser(p.catalog),
	}
	p.profiles[slug] = prof
	return prof
}

// Stored lists the slugs that have daily data in the store, whether or not
// they have been loaded since start-up.
func (p *Profiles) Stored(ctx context.Context) ([]string, error) {
	prefix := dailyKey("")
	keys, err := p.store.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	slugs := make([]string, 0, len(keys))
	for _, k := range keys {
		slugs = append(slugs, strings.TrimPrefix(k, prefix))
	}
	return slugs, nil
}

// PruneAll prunes every stored profile's daily data. It keeps going after
// a failed profile and returns the first error.
func (p *Profiles) PruneAll(ctx context.Context, retentionDays int) (profiles, removed int, err error) {
	slugs, err := p.Stored(ctx)
	if err != nil {
		return 0, 0, err
	}
	var firstErr error
	for _, slug := range slugs {
		n, err := p.Get(slug).Daily.Prune(ctx, retentionDays)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("pruning %s: %w", slug, err)
			}
			continue
		}
		profiles++
		removed += n
	}
	return profiles, removed, firstErr
}

// ResetDaily deletes a profile's daily document. It returns kv.ErrNotFound
// (via the store) if the profile has none.
func (p *Profiles) ResetDaily(ctx context.Context, slug string) error {
	return p.store.Delete(ctx, dailyKey(slug))
}
