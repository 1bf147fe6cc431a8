// Package tracklog accumulates the track titles heard on each channel and
// persists them as a single JSON object mapping channel name to titles.
package tracklog

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Log collects titles keyed by channel name. It is owned by exactly one
// session at a time; persistence happens strictly before or after the live
// session, never during, so no locking is needed.
type Log struct {
	titles map[string][]string
}

func New() *Log {
	return &Log{titles: make(map[string][]string)}
}

// Load reads a previously flushed log. A missing or unreadable file is not
// fatal, it just means starting from an empty log.
func Load(path string) *Log {
	l := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("could not read track log, starting empty")
		}
		return l
	}

	if err := json.Unmarshal(data, &l.titles); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("corrupt track log, starting empty")
		l.titles = make(map[string][]string)
	}
	return l
}

// Record appends a title under a channel. Safe to call repeatedly with the
// same pair; duplicates are collapsed at flush time when deduplication is on.
func (l *Log) Record(channel, title string) {
	if channel == "" || title == "" {
		return
	}
	l.titles[channel] = append(l.titles[channel], title)
}

// Titles returns the recorded titles for a channel, in record order.
func (l *Log) Titles(channel string) []string {
	return l.titles[channel]
}

// Channels returns the channel names present in the log.
func (l *Log) Channels() []string {
	names := make([]string, 0, len(l.titles))
	for name := range l.titles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush writes the whole log to path, replacing whatever was there.
// With dedupe set, each channel's titles collapse to a sorted set;
// record order is given up in exchange.
func (l *Log) Flush(path string, dedupe bool) error {
	out := l.titles
	if dedupe {
		out = make(map[string][]string, len(l.titles))
		for channel, titles := range l.titles {
			out[channel] = dedupeTitles(titles)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write to a temp file, then rename (atomic on Linux).
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func dedupeTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
