package tracklog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRecordAndTitles(t *testing.T) {
	l := New()
	l.Record("Groove Salad", "Artist - Track")
	l.Record("Groove Salad", "Other - Song")
	l.Record("Drone Zone", "Hum - Drone")

	got := l.Titles("Groove Salad")
	want := []string{"Artist - Track", "Other - Song"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Titles() = %v, want %v", got, want)
	}

	if chans := l.Channels(); !reflect.DeepEqual(chans, []string{"Drone Zone", "Groove Salad"}) {
		t.Errorf("Channels() = %v", chans)
	}
}

func TestRecordIgnoresEmpty(t *testing.T) {
	l := New()
	l.Record("", "title")
	l.Record("channel", "")
	if len(l.Channels()) != 0 {
		t.Errorf("empty keys should not be recorded, got %v", l.Channels())
	}
}

func TestFlushDedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")

	l := New()
	l.Record("Groove Salad", "Artist - Track")
	l.Record("Groove Salad", "Artist - Track")

	if err := l.Flush(path, true); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	got := Load(path)
	if titles := got.Titles("Groove Salad"); len(titles) != 1 || titles[0] != "Artist - Track" {
		t.Errorf("deduplicated flush stored %v, want exactly one title", titles)
	}
}

func TestFlushNoDedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")

	l := New()
	l.Record("Groove Salad", "Artist - Track")
	l.Record("Groove Salad", "Artist - Track")

	if err := l.Flush(path, false); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	got := Load(path)
	if titles := got.Titles("Groove Salad"); len(titles) != 2 {
		t.Errorf("flush without dedupe stored %v, want both entries", titles)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")

	l := New()
	l.Record("Groove Salad", "B - Second")
	l.Record("Groove Salad", "A - First")
	l.Record("Drone Zone", "Hum - Drone")

	if err := l.Flush(path, false); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	got := Load(path)
	for _, channel := range l.Channels() {
		if !reflect.DeepEqual(got.Titles(channel), l.Titles(channel)) {
			t.Errorf("round trip mismatch for %q: %v != %v",
				channel, got.Titles(channel), l.Titles(channel))
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := Load(filepath.Join(t.TempDir(), "nope.json"))
	if len(l.Channels()) != 0 {
		t.Error("missing file should load as an empty log")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	l := Load(path)
	if len(l.Channels()) != 0 {
		t.Error("corrupt file should load as an empty log")
	}
	// The log must still be usable afterwards.
	l.Record("Groove Salad", "Artist - Track")
	if len(l.Titles("Groove Salad")) != 1 {
		t.Error("log unusable after corrupt load")
	}
}
