// Package session owns the one-time, single-pass interpretation of an
// external player's output stream. One Controller reads one stream for one
// playback session; nothing here is shared between sessions or goroutines.
package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pes18fan/etere/dialect"
)

// Renderer receives everything that should reach the user's screen.
// Implementations forward to the bubbletea model; they must not block.
type Renderer interface {
	// HeaderField is called once per recognized header line.
	HeaderField(field dialect.Role, value string)
	// Track is called for every track title line, station IDs included.
	Track(title string, stationID bool, at time.Time)
	// Verbatim echoes an unrecognized line, verbose mode only.
	Verbatim(line string)
}

// Notifier fires a side effect for a new track. Fire-and-forget: failures
// are the notifier's own concern.
type Notifier interface {
	Notify(channel, title string)
}

// Recorder persists a discovered title under a channel.
type Recorder interface {
	Record(channel, title string)
}

// Hooks bundles the side-effect targets the controller drives. Any of them
// may be nil, which simply disables that effect.
type Hooks struct {
	Render Renderer
	Notify Notifier
	Record Recorder
}

// Options control what the controller does with classified events.
type Options struct {
	Verbose       bool
	LogEnabled    bool
	NotifyEnabled bool

	// StationIDs are the known station identification jingle names.
	StationIDs []string
}

// State is the mutable session record. It lives exactly as long as one
// Run call and is never shared.
type State struct {
	Kind          dialect.PlayerKind
	HeaderPrinted bool
	ChannelName   string

	lastTitle string
}

// Controller drives one pass over a player's output stream.
type Controller struct {
	profile *dialect.Profile
	state   State
	hooks   Hooks
	opts    Options
}

// New builds a controller for one playback session. channelHint seeds the
// channel name from the catalog, for dialects whose header never reports it
// (mpv); dialects that do self-report overwrite it.
func New(kind dialect.PlayerKind, channelHint string, hooks Hooks, opts Options) *Controller {
	state := State{Kind: kind}

	profile := dialect.ProfileFor(kind)
	if profile != nil && !profile.HasHeader {
		// No header to wait for; the gate is open from the first line.
		state.HeaderPrinted = true
		state.ChannelName = channelHint
	}

	return &Controller{
		profile: profile,
		state:   state,
		hooks:   hooks,
		opts:    opts,
	}
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	return c.state
}

// Run consumes the stream line by line until it is exhausted or ctx is
// cancelled. Stream exhaustion is the normal way out, whatever the player
// did to get there; a crash before any recognizable output is not an error
// at this layer. Cancellation is observed between line reads; a read
// blocked on a silent player unblocks once the caller tears the player
// down, which closes the stream.
func (c *Controller) Run(ctx context.Context, r io.Reader) error {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("player", c.state.Kind.String()).Msg("session cancelled")
			return ctx.Err()
		default:
		}

		line, tooLong, err := readLine(reader)
		switch {
		case tooLong:
			// Stream garbage; no real metadata line is that big. Drop it
			// and keep reading.
			log.Debug().Msg("discarded oversized player output line")
		case len(line) > 0 || err == nil:
			c.dispatch(dialect.Classify(line, c.profile))
		}
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			// Teardown closed the pipe under us.
			log.Debug().Str("player", c.state.Kind.String()).Msg("session cancelled")
			return ctx.Err()
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, fs.ErrClosed) {
			log.Debug().
				Str("player", c.state.Kind.String()).
				Str("channel", c.state.ChannelName).
				Msg("player output stream exhausted")
			return nil
		}
		// A read error still means the stream is gone; report it but the
		// session converged on termination either way.
		log.Debug().Err(err).Msg("player output stream closed with error")
		return err
	}
}

const maxLineBytes = 256 * 1024

// readLine reads one line of any length, joining continuation chunks.
// A line over maxLineBytes is consumed to its end but comes back empty
// with tooLong set, so one runaway line cannot end the whole stream.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return line, tooLong, err
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineBytes {
				line = nil
				tooLong = true
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

// dispatch routes one classified event. One malformed line must never take
// down the rest of the stream, so nothing in here returns an error.
func (c *Controller) dispatch(ev dialect.Event) {
	switch ev := ev.(type) {
	case dialect.Header:
		c.handleHeader(ev)
	case dialect.TrackUpdate:
		c.handleTrack(ev)
	case dialect.Unrecognized:
		if c.opts.Verbose && ev.Line != "" && c.hooks.Render != nil {
			c.hooks.Render.Verbatim(ev.Line)
		}
	}
}

func (c *Controller) handleHeader(ev dialect.Header) {
	if c.hooks.Render != nil {
		c.hooks.Render.HeaderField(ev.Field, ev.Value)
	}

	switch ev.Field {
	case dialect.RoleChannelName:
		c.state.ChannelName = ev.Value
	case dialect.RoleBitrate:
		// The bitrate line is the last of the header block.
		c.state.HeaderPrinted = true
	}
}

func (c *Controller) handleTrack(ev dialect.TrackUpdate) {
	isID := dialect.IsStationID(ev.Title, c.opts.StationIDs)

	// Always rendered, station IDs with their own highlight.
	if c.hooks.Render != nil {
		c.hooks.Render.Track(ev.Title, isID, time.Now())
	}

	if isID {
		return
	}

	// Pre-header noise must not be logged as tracks, and without a channel
	// name there is nothing to key the log by. Both are degraded modes,
	// not errors.
	if !c.state.HeaderPrinted || c.state.ChannelName == "" {
		log.Debug().Str("title", ev.Title).Msg("track update before channel context, render only")
		return
	}

	if c.opts.LogEnabled && c.hooks.Record != nil {
		c.hooks.Record.Record(c.state.ChannelName, ev.Title)
	}

	// Players re-announce the current title now and then; notify only on
	// an actual change.
	if ev.Title != c.state.lastTitle {
		c.state.lastTitle = ev.Title
		if c.opts.NotifyEnabled && c.hooks.Notify != nil {
			c.hooks.Notify.Notify(c.state.ChannelName, ev.Title)
		}
	}
}
