package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pes18fan/etere/catalog"
	"github.com/pes18fan/etere/config"
	"github.com/pes18fan/etere/player"
	"github.com/pes18fan/etere/tracklog"
)

type uiState int

const (
	statePicking uiState = iota
	stateConnecting
	statePlaying
)

// item adapts a catalog channel for the bubbles list.
type item struct {
	ch catalog.Channel
}

func (i item) Title() string       { return i.ch.Title }
func (i item) Description() string { return i.ch.Genre }
func (i item) FilterValue() string { return i.ch.ID + " " + i.ch.Title }

type trackLine struct {
	at        time.Time
	title     string
	stationID bool
}

type model struct {
	termWidth  int
	termHeight int

	tuner      *tuner
	statusChan chan Status

	state    uiState
	channels list.Model
	spin     spinner.Model

	current catalog.Channel
	cancel  context.CancelFunc

	headerFields []HeaderUpdate
	nowPlaying   trackLine
	history      []trackLine
	rawTail      []string
	art          string

	quitting bool
	err      error
}

// tea message type for status updates
type StatusMsg Status

func listenForStatus(statusChan <-chan Status) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg(<-statusChan)
	}
}

func initialModel(t *tuner, channels []catalog.Channel) model {
	items := make([]list.Item, len(channels))
	for i, ch := range channels {
		items[i] = item{ch: ch}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "etere: pick a channel"
	l.SetShowStatusBar(false)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return model{
		tuner:      t,
		statusChan: make(chan Status),
		channels:   l,
		spin:       s,
		state:      statePicking,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// tune starts a playback session for a channel. The returned command keeps
// the status listener running; the session itself lives in its own
// goroutine, fono style.
func (m *model) tune(ch catalog.Channel) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.current = ch
	m.state = stateConnecting
	m.headerFields = nil
	m.history = nil
	m.rawTail = nil
	m.art = ""
	m.nowPlaying = trackLine{}

	go m.tuner.StartSession(ctx, ch, m.statusChan)

	return tea.Batch(m.spin.Tick, listenForStatus(m.statusChan))
}

// stop cancels the running session; the tuner answers with SessionEnded
// once the player is gone.
func (m *model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		return m.handleStatus(msg)

	case tea.KeyMsg:
		// While the list filter is being typed into, every key belongs
		// to it.
		if m.state == statePicking && m.channels.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == statePicking {
				return m, tea.Quit
			}
			// Keep draining statuses until the session confirms it is
			// gone; quitting before that would race the track log flush.
			m.quitting = true
			m.stop()
			return m, nil
		case "s":
			if m.state == statePlaying || m.state == stateConnecting {
				m.stop()
			}
			return m, nil
		case "enter":
			if m.state == statePicking && m.channels.FilterState() != list.Filtering {
				if it, ok := m.channels.SelectedItem().(item); ok {
					return m, m.tune(it.ch)
				}
			}
		}

	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.channels.SetSize(msg.Width, msg.Height-2)

	case spinner.TickMsg:
		if m.state == stateConnecting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == statePicking {
		var cmd tea.Cmd
		m.channels, cmd = m.channels.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleStatus(msg StatusMsg) (tea.Model, tea.Cmd) {
	switch status := Status(msg).(type) {
	case HeaderUpdate:
		m.state = statePlaying
		m.headerFields = append(m.headerFields, status)

	case TrackUpdate:
		m.state = statePlaying
		line := trackLine{at: status.At, title: status.Title, stationID: status.StationID}
		if m.nowPlaying.title != "" {
			m.history = append(m.history, m.nowPlaying)
			if len(m.history) > historyLines {
				m.history = m.history[len(m.history)-historyLines:]
			}
		}
		m.nowPlaying = line

	case RawOutput:
		m.rawTail = append(m.rawTail, status.Line)
		if len(m.rawTail) > rawLines {
			m.rawTail = m.rawTail[len(m.rawTail)-rawLines:]
		}

	case ArtworkUpdate:
		m.art = status.Art.Data

	case SessionEnded:
		// Release the context even when the session ended on its own, or
		// the tuner's teardown watcher lingers forever.
		m.stop()
		if status.Err != nil {
			m.err = status.Err
			log.Error().Err(status.Err).Str("channel", m.current.ID).Msg("session ended")
		}
		if m.quitting {
			return m, tea.Quit
		}
		// Back to the channel list for another pick.
		m.state = statePicking
		return m, nil
	}

	return m, listenForStatus(m.statusChan)
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file path")
	playerFlag := flag.String("player", "", "player to use (mplayer, mpg123, mpv)")
	verbose := flag.Bool("verbose", false, "echo unrecognized player output")
	noNotify := flag.Bool("no-notify", false, "disable desktop notifications")
	listOnly := flag.Bool("list", false, "print the channel list and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if *playerFlag != "" {
		cfg.Player = *playerFlag
	}
	if *verbose {
		cfg.Verbose = true
	}
	if *noNotify {
		cfg.Notify = false
	}

	setupLogging(cfg)

	release, err := acquireLock()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	defer release()

	cat := catalog.NewClient(cfg.CatalogURL, cfg.CacheDir, cfg.CacheTTL)
	channels, err := cat.Channels(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal: could not load channel catalog:", err)
		os.Exit(1)
	}

	if *listOnly {
		for _, ch := range channels {
			fmt.Printf("%-20s %-30s %s\n", ch.ID, ch.Title, ch.Genre)
		}
		return
	}

	kind, err := player.Pick(cfg.Player)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	log.Info().Str("player", kind.String()).Msg("player selected")

	trackLog := tracklog.New()
	if cfg.TrackLog.Enabled {
		trackLog = tracklog.Load(cfg.TrackLog.Path)
	}

	t := &tuner{cfg: cfg, cat: cat, trackLog: trackLog, kind: kind}
	m := initialModel(t, channels)

	// A channel argument skips the picker entirely.
	var startCmd tea.Cmd
	if query := flag.Arg(0); query != "" {
		ch, err := catalog.Find(channels, query)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}
		startCmd = m.tune(ch)
	}

	p := tea.NewProgram(wrapInit{model: m, cmd: startCmd}, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	if cfg.TrackLog.Enabled {
		if err := trackLog.Flush(cfg.TrackLog.Path, cfg.TrackLog.Dedupe); err != nil {
			log.Error().Err(err).Str("path", cfg.TrackLog.Path).Msg("track log flush failed")
			fmt.Fprintln(os.Stderr, "warning: could not write track log:", err)
		}
	}

	if fm, ok := final.(wrapInit); ok && fm.model.err != nil {
		fmt.Fprintln(os.Stderr, "error:", fm.model.err)
		os.Exit(1)
	}
}

// wrapInit lets main hand the program an initial command (straight-to-play
// mode) without the model having to know about it.
type wrapInit struct {
	model model
	cmd   tea.Cmd
}

func (w wrapInit) Init() tea.Cmd {
	return w.cmd
}

func (w wrapInit) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := w.model.Update(msg)
	w.model = next.(model)
	return w, cmd
}

func (w wrapInit) View() string {
	return w.model.View()
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if len(os.Getenv("DEBUG")) > 0 {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// The terminal belongs to bubbletea, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err == nil {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			log.Logger = zerolog.New(f).With().Timestamp().Logger()
			return
		}
	}
	log.Logger = zerolog.Nop()
}
