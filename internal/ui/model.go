package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lecheel/audlyrics/internal/config"
	"github.com/lecheel/audlyrics/internal/player"
	"github.com/lecheel/audlyrics/internal/terminal"
	"github.com/lecheel/audlyrics/internal/timeline"
	"github.com/lecheel/audlyrics/internal/track"
)

type TickMsg time.Time

type PlayerEventMsg struct {
	Event player.EventData
}

type LyricsFetchedMsg struct {
	Timeline     *timeline.Timeline
	PlainLyrics  string
	Instrumental bool
	UserOffsetMS int
	Err          error
}

// TrackDisplay is everything the view needs for the current song. The
// timeline is replaced wholesale whenever new lyrics arrive; the
// window is recomputed from it on every tick and never mutates it.
type TrackDisplay struct {
	Track        *track.Info
	Timeline     *timeline.Timeline
	PlainLyrics  string
	Instrumental bool
	Window       []timeline.Line
}

type Model struct {
	player       *player.Service
	lrclibURL    string
	userOffsetMS int
	syncLyrics   bool
	hideHeader   bool
	termCaps     *terminal.Capabilities

	display        TrackDisplay
	positionMS     int
	loadingLyrics  bool
	err            error
	quitting       bool
	width          int
	height         int
	lastLineChange time.Time
	tickCount      int
}

type ModelConfig struct {
	Player       *player.Service
	LrclibURL    string
	UserOffsetMS int
	SyncLyrics   bool
	HideHeader   bool
	TermCaps     *terminal.Capabilities
}

func NewModel(cfg ModelConfig) Model {
	return Model{
		player:         cfg.Player,
		lrclibURL:      cfg.LrclibURL,
		userOffsetMS:   cfg.UserOffsetMS,
		syncLyrics:     cfg.SyncLyrics,
		hideHeader:     cfg.HideHeader,
		termCaps:       cfg.TermCaps,
		lastLineChange: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.listenForPlayerEvents())
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.PollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) listenForPlayerEvents() tea.Cmd {
	if m.player == nil {
		return nil
	}

	return func() tea.Msg {
		event, ok := <-m.player.Events()
		if !ok {
			return nil
		}
		return PlayerEventMsg{Event: event}
	}
}

func (m *Model) resetForNewTrack() {
	m.display.Timeline = nil
	m.display.PlainLyrics = ""
	m.display.Instrumental = false
	m.display.Window = nil
	m.lastLineChange = time.Now()
	m.err = nil
}

// updateWindow recomputes the display window for the given playback
// position. Returns true when the visible set of lines changed.
func (m *Model) updateWindow(positionMS int) bool {
	if !m.syncLyrics || m.display.Timeline.Empty() {
		return false
	}

	adjusted := positionMS + m.userOffsetMS
	window := m.display.Timeline.Window(adjusted)

	if !windowsEqual(window, m.display.Window) {
		m.display.Window = window
		m.lastLineChange = time.Now()
		return true
	}

	return false
}

func windowsEqual(a, b []timeline.Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (m Model) Width() int  { return m.width }
func (m Model) Height() int { return m.height }

func (m Model) Track() *track.Info      { return m.display.Track }
func (m Model) PositionMS() int         { return m.positionMS }
func (m Model) Window() []timeline.Line { return m.display.Window }
func (m Model) UserOffsetMS() int       { return m.userOffsetMS }
func (m Model) SyncEnabled() bool       { return m.syncLyrics }
func (m Model) HideHeader() bool        { return m.hideHeader }
func (m Model) Err() error              { return m.err }
func (m Model) IsQuitting() bool        { return m.quitting }
func (m Model) IsLoadingLyrics() bool   { return m.loadingLyrics }

func (m *Model) Stop() {
	if m.player != nil {
		m.player.Stop()
	}
}
