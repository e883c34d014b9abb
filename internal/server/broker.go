package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/defenceguesser/internal/defence"
)

// LeaderboardEvent is published to a profile's subscribers whenever a
// daily score is recorded.
type LeaderboardEvent struct {
	Type        string                     `json:"type"`
	DateKey     string                     `json:"dateKey"`
	Leaderboard []defence.LeaderboardEntry `json:"leaderboard"`
}

// Broker is an in-process pub/sub for SSE events, keyed by profile.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given profile.
func (b *Broker) Subscribe(profile string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[profile] == nil {
		b.subs[profile] = make(map[chan []byte]struct{})
	}
	b.subs[profile][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the profile's subscribers.
func (b *Broker) Unsubscribe(profile string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[profile], ch)
	if len(b.subs[profile]) == 0 {
		delete(b.subs, profile)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given profile.
func (b *Broker) Publish(profile string, event LeaderboardEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[profile] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
