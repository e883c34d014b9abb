package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleEvents streams leaderboard updates for the request's profile. The
// current daily leaderboard is sent first so clients need no extra fetch.
func handleEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prof := profileFrom(r)

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ch := broker.Subscribe(prof.Slug)
		defer broker.Unsubscribe(prof.Slug, ch)

		key := prof.Daily.TodayKey()
		initial, _ := json.Marshal(LeaderboardEvent{
			Type:        "leaderboard",
			DateKey:     key,
			Leaderboard: prof.Daily.Leaderboard(r.Context(), key),
		})
		fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", initial)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
