package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const directoryJSON = `{"channels": [
	{"id": "groovesalad", "title": "Groove Salad", "genre": "Ambient", "stream_url": "http://x/gs"},
	{"id": "dronezone", "title": "Drone Zone", "genre": "Ambient", "stream_url": "http://x/dz"}
]}`

func testServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(directoryJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChannelsFetchAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := testServer(t, &hits)

	c := NewClient(srv.URL, t.TempDir(), time.Hour)

	chans, err := c.Channels(context.Background())
	if err != nil {
		t.Fatalf("Channels() failed: %v", err)
	}
	if len(chans) != 2 || chans[0].ID != "groovesalad" {
		t.Fatalf("Channels() = %v", chans)
	}

	// Second call within the TTL must come from cache.
	if _, err := c.Channels(context.Background()); err != nil {
		t.Fatalf("cached Channels() failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestChannelsStaleCacheFallback(t *testing.T) {
	var hits atomic.Int32
	srv := testServer(t, &hits)

	dir := t.TempDir()
	c := NewClient(srv.URL, dir, time.Nanosecond)

	if _, err := c.Channels(context.Background()); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}

	// Kill the server; the nanosecond TTL forces a refetch, which must
	// fall back to the stale cache.
	srv.Close()
	time.Sleep(10 * time.Millisecond)

	chans, err := c.Channels(context.Background())
	if err != nil {
		t.Fatalf("stale-cache fallback failed: %v", err)
	}
	if len(chans) != 2 {
		t.Errorf("fallback returned %d channels, want 2", len(chans))
	}
}

func TestChannelsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, t.TempDir(), time.Hour)
	if _, err := c.Channels(context.Background()); err == nil {
		t.Error("server error with no cache should fail")
	}
}

func TestFind(t *testing.T) {
	chans := []Channel{
		{ID: "groovesalad", Title: "Groove Salad"},
		{ID: "dronezone", Title: "Drone Zone"},
	}

	tests := []struct {
		query string
		want  string
	}{
		{"groovesalad", "groovesalad"}, // exact ID
		{"Drone Zone", "dronezone"},    // exact title, case-insensitive
		{"salad", "groovesalad"},       // fuzzy
		{"drnzn", "dronezone"},         // fuzzy abbreviation
	}

	for _, tt := range tests {
		ch, err := Find(chans, tt.query)
		if err != nil {
			t.Errorf("Find(%q) failed: %v", tt.query, err)
			continue
		}
		if ch.ID != tt.want {
			t.Errorf("Find(%q) = %s, want %s", tt.query, ch.ID, tt.want)
		}
	}
}

func TestFindNoMatch(t *testing.T) {
	chans := []Channel{{ID: "groovesalad", Title: "Groove Salad"}}

	if _, err := Find(chans, "zzzzzz"); !errors.Is(err, ErrNoChannel) {
		t.Errorf("Find on garbage = %v, want ErrNoChannel", err)
	}
	if _, err := Find(chans, "   "); !errors.Is(err, ErrNoChannel) {
		t.Errorf("Find on blank = %v, want ErrNoChannel", err)
	}
}

func TestIconExtIgnoresQueryString(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"https://somafm.com/img/groovesalad.jpg", ".jpg"},
		{"https://somafm.com/img/groovesalad.jpg?v=2", ".jpg"},
		{"https://somafm.com/img/dronezone.png?a=1&b=2", ".png"},
		{"https://somafm.com/img/noext", ""},
	}

	for _, tt := range tests {
		if got := iconExt(tt.image); got != tt.want {
			t.Errorf("iconExt(%q) = %q, want %q", tt.image, got, tt.want)
		}
	}
}
