package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pes18fan/etere/catalog"
	"github.com/pes18fan/etere/config"
	"github.com/pes18fan/etere/dialect"
	"github.com/pes18fan/etere/notify"
	"github.com/pes18fan/etere/player"
	"github.com/pes18fan/etere/session"
	"github.com/pes18fan/etere/termimg"
	"github.com/pes18fan/etere/tracklog"
)

// tuner glues the catalog, the player process and the session controller
// together. One playback session at a time; the UI owns the lifetime
// through the context it hands to StartSession.
type tuner struct {
	cfg      *config.Config
	cat      *catalog.Client
	trackLog *tracklog.Log
	kind     dialect.PlayerKind
}

// forwarder implements session.Renderer by pushing Status values to the
// bubbletea UI. Sends block only as long as the UI is between reads, which
// is the same backpressure fono's audio unit lives with.
type forwarder struct {
	ch chan<- Status
}

func (f forwarder) HeaderField(field dialect.Role, value string) {
	f.ch <- HeaderUpdate{Field: field, Value: value}
}

func (f forwarder) Track(title string, stationID bool, at time.Time) {
	f.ch <- TrackUpdate{Title: title, StationID: stationID, At: at}
}

func (f forwarder) Verbatim(line string) {
	f.ch <- RawOutput{Line: line}
}

// StartSession plays one channel until the player dies or ctx is
// cancelled. It should be run in a goroutine separate from the main one;
// everything it has to say goes out over statusChan, always ending with a
// SessionEnded.
func (t *tuner) StartSession(ctx context.Context, ch catalog.Channel, statusChan chan<- Status) {
	// The icon is wanted twice, by the desktop notifier and by the
	// in-terminal artwork. Cached on disk, so usually instant.
	iconPath, err := t.cat.Icon(ctx, ch)
	if err != nil {
		log.Debug().Err(err).Str("channel", ch.ID).Msg("no channel icon")
	}

	proc, err := player.Start(t.kind, ch.StreamURL)
	if err != nil {
		statusChan <- SessionEnded{Err: err}
		return
	}

	// The controller only notices cancellation between reads, and a silent
	// player leaves it blocked in one. Tearing the player down here closes
	// its output pipe, which is what actually unblocks the read.
	go func() {
		<-ctx.Done()
		proc.Stop()
	}()

	if art, err := termimg.FromFile(iconPath); err == nil && !art.Empty() {
		statusChan <- ArtworkUpdate{Art: art}
	}

	hooks := session.Hooks{
		Render: forwarder{ch: statusChan},
		Notify: t.notifiers(iconPath),
		Record: t.trackLog,
	}
	opts := session.Options{
		Verbose:       t.cfg.Verbose,
		LogEnabled:    t.cfg.TrackLog.Enabled,
		NotifyEnabled: t.cfg.Notify || t.cfg.NotifyCommand != "",
		StationIDs:    t.cfg.StationIDs,
	}

	// mplayer and mpg123 self-report the channel name in their headers;
	// mpv never does, so the catalog title seeds it.
	ctrl := session.New(t.kind, ch.Title, hooks, opts)
	runErr := ctrl.Run(ctx, proc.Output)

	// Whether the stream ended on its own or the user cancelled, the
	// player has to go before we report back.
	proc.Stop()

	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	statusChan <- SessionEnded{Err: runErr}
}

// notifiers builds the track-change side effects that are enabled, or nil.
func (t *tuner) notifiers(iconPath string) session.Notifier {
	var all notify.Multi

	if t.cfg.Notify {
		desktop, err := notify.NewDesktop(iconPath)
		if err != nil {
			log.Debug().Err(err).Msg("desktop notifications unavailable")
		} else {
			all = append(all, desktop)
		}
	}

	if cmd := notify.NewCommand(t.cfg.NotifyCommand); cmd != nil {
		all = append(all, cmd)
	}

	if len(all) == 0 {
		return nil
	}
	return all
}
