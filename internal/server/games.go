package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/defenceguesser/internal/session"
)

// gameSlot owns one in-flight game. Handlers hold mu for the whole
// request so each game sees one command at a time.
type gameSlot struct {
	ID      string
	Profile string
	// DateKey is the daily challenge the game belongs to; empty for
	// practice games.
	DateKey string

	mu        sync.Mutex
	game      *session.Game
	submitted bool
	placement int
	lastSeen  time.Time
}

// Games holds in-flight games in memory, keyed by ID.
type Games struct {
	now func() time.Time

	mu    sync.RWMutex
	slots map[string]*gameSlot
}

func NewGames() *Games {
	return &Games{
		now:   time.Now,
		slots: make(map[string]*gameSlot),
	}
}

// Add registers g for profile and returns its slot.
func (gs *Games) Add(profile, dateKey string, g *session.Game) *gameSlot {
	slot := &gameSlot{
		ID:       uuid.NewString(),
		Profile:  profile,
		DateKey:  dateKey,
		game:     g,
		lastSeen: gs.now(),
	}
	gs.mu.Lock()
	gs.slots[slot.ID] = slot
	gs.mu.Unlock()
	return slot
}

// Get returns the game with id if it belongs to profile, and marks it as
// recently used.
func (gs *Games) Get(profile, id string) (*gameSlot, bool) {
	gs.mu.RLock()
	slot, ok := gs.slots[id]
	gs.mu.RUnlock()
	if !ok || slot.Profile != profile {
		return nil, false
	}
	now := gs.now()
	slot.mu.Lock()
	slot.lastSeen = now
	slot.mu.Unlock()
	return slot, true
}

func (gs *Games) Len() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return len(gs.slots)
}

// Sweep drops games not used for longer than idle and returns how many
// were removed.
func (gs *Games) Sweep(idle time.Duration) int {
	cutoff := gs.now().Add(-idle)

	gs.mu.Lock()
	defer gs.mu.Unlock()

	removed := 0
	for id, slot := range gs.slots {
		slot.mu.Lock()
		stale := slot.lastSeen.Before(cutoff)
		slot.mu.Unlock()
		if stale {
			delete(gs.slots, id)
			removed++
		}
	}
	return removed
}
