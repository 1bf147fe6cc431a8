package main

import (
	"time"

	"github.com/pes18fan/etere/dialect"
	"github.com/pes18fan/etere/termimg"
)

// A status message sent out by the tuner unit to the bubbletea UI.
// Status structs, alongside acting as a notifier for changes, also provide
// information about the change.
type Status interface {
	isStatus()
}

// Status update sent for every header field the player reported about the
// stream (channel name, genre, bitrate).
type HeaderUpdate struct {
	Field dialect.Role
	Value string
}

func (HeaderUpdate) isStatus() {}

// Status update sent when the playing track changes. Station IDs arrive
// here too, flagged, so the UI can style them differently.
type TrackUpdate struct {
	Title     string
	StationID bool
	At        time.Time
}

func (TrackUpdate) isStatus() {}

// Status update carrying a raw player output line, verbose mode only.
type RawOutput struct {
	Line string
}

func (RawOutput) isStatus() {}

// Status update sent once the channel artwork has been fetched and encoded.
type ArtworkUpdate struct {
	Art termimg.TerminalImage
}

func (ArtworkUpdate) isStatus() {}

// Status update sent when the player process is gone and its output stream
// is exhausted. Err is nil for a clean shutdown.
type SessionEnded struct {
	Err error
}

func (SessionEnded) isStatus() {}
