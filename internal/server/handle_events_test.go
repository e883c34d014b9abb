package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playperu/defenceguesser/internal/defence"
)

// readEvent reads one SSE event and returns its name and data.
func readEvent(t *testing.T, rd *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := rd.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if name != "" || data != "" {
				return name, data
			}
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestLeaderboardEvents(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/alice/daily/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}
	rd := bufio.NewReader(resp.Body)

	name, data := readEvent(t, rd)
	if name != "leaderboard" {
		t.Fatalf("first event = %q", name)
	}
	var initial LeaderboardEvent
	if err := json.Unmarshal([]byte(data), &initial); err != nil {
		t.Fatalf("decoding initial event: %v", err)
	}
	if initial.DateKey != "20261016" || len(initial.Leaderboard) != 0 {
		t.Errorf("initial = %+v", initial)
	}

	// Events for other profiles are not delivered.
	env.deps.Broker.Publish("bob", LeaderboardEvent{Type: "leaderboard", DateKey: "20261016"})
	env.deps.Broker.Publish("alice", LeaderboardEvent{
		Type:        "leaderboard",
		DateKey:     "20261016",
		Leaderboard: []defence.LeaderboardEntry{{Name: "Ana", Score: 15000}},
	})

	_, data = readEvent(t, rd)
	var update LeaderboardEvent
	if err := json.Unmarshal([]byte(data), &update); err != nil {
		t.Fatalf("decoding update: %v", err)
	}
	if len(update.Leaderboard) != 1 || update.Leaderboard[0].Name != "Ana" {
		t.Errorf("update = %+v", update)
	}
}
