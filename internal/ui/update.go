package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lecheel/audlyrics/internal/cache"
	"github.com/lecheel/audlyrics/internal/lyrics"
	"github.com/lecheel/audlyrics/internal/player"
	"github.com/lecheel/audlyrics/internal/timeline"
	"github.com/lecheel/audlyrics/internal/track"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case PlayerEventMsg:
		return m.handlePlayerEvent(msg.Event)

	case LyricsFetchedMsg:
		return m.handleLyricsFetched(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.Stop()
		return m, tea.Quit

	case "up", "k", "+", "=":
		m.userOffsetMS += 100
		m.refreshWindowFromPlayer()
		m.saveUserOffset()
		return m, nil

	case "down", "j", "-":
		m.userOffsetMS -= 100
		m.refreshWindowFromPlayer()
		m.saveUserOffset()
		return m, nil

	case "left", "h":
		m.userOffsetMS -= 500
		m.refreshWindowFromPlayer()
		m.saveUserOffset()
		return m, nil

	case "right", "l":
		m.userOffsetMS += 500
		m.refreshWindowFromPlayer()
		m.saveUserOffset()
		return m, nil

	case "0":
		m.userOffsetMS = 0
		m.refreshWindowFromPlayer()
		m.saveUserOffset()
		return m, nil

	case "s":
		m.syncLyrics = !m.syncLyrics
		if m.syncLyrics {
			m.refreshWindowFromPlayer()
		} else {
			m.display.Window = nil
		}
		return m, nil

	case "tab", "i":
		m.hideHeader = !m.hideHeader
		return m, nil
	}

	return m, nil
}

// saveUserOffset persists the adjusted offset into the cached entry
// for the current song so it survives restarts.
func (m *Model) saveUserOffset() {
	if m.display.Track == nil {
		return
	}

	diskCache := cache.GetGlobalCache()

	cached, err := diskCache.Get(m.display.Track.Artist, m.display.Track.Title)
	if err != nil {
		return
	}

	cached.UserOffsetMS = m.userOffsetMS
	_ = diskCache.Set(m.display.Track.Artist, m.display.Track.Title, cached)
}

func (m *Model) refreshWindowFromPlayer() {
	if m.player == nil {
		return
	}
	pos, err := m.player.GetCurrentPosition()
	if err != nil {
		return
	}
	m.positionMS = pos
	m.updateWindow(pos)
}

func (m Model) handlePlayerEvent(event player.EventData) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenForPlayerEvents()}

	switch event.Type {
	case player.EventTrackChanged:
		return m.handleTrackChange(event.Track, cmds)

	case player.EventSeeked:
		m.positionMS = event.PositionMS
		m.updateWindow(event.PositionMS)
		m.lastLineChange = time.Now()
		return m, tea.Batch(cmds...)

	case player.EventPlaybackStateChanged:
		return m, tea.Batch(cmds...)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleTrackChange(newTrack *track.Info, existingCmds []tea.Cmd) (tea.Model, tea.Cmd) {
	m.display.Track = newTrack
	m.resetForNewTrack()

	if newTrack == nil || !newTrack.IsValid() {
		m.err = errors.New("no track playing")
		return m, tea.Batch(existingCmds...)
	}

	m.loadingLyrics = true
	existingCmds = append(existingCmds, fetchLyricsCmd(m.lrclibURL, newTrack))

	return m, tea.Batch(existingCmds...)
}

func (m Model) handleLyricsFetched(msg LyricsFetchedMsg) (tea.Model, tea.Cmd) {
	m.loadingLyrics = false

	if msg.Err != nil {
		m.err = msg.Err
		m.display.Timeline = nil
		m.display.Window = nil
		return m, nil
	}

	m.err = nil
	m.display.Timeline = msg.Timeline
	m.display.PlainLyrics = msg.PlainLyrics
	m.display.Instrumental = msg.Instrumental
	m.display.Window = nil

	// restore the per-song offset saved in the cache
	if msg.UserOffsetMS != 0 {
		m.userOffsetMS = msg.UserOffsetMS
	}

	m.updateWindow(m.positionMS)

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.tickCount++

	if m.player == nil {
		return m, tickCmd()
	}

	err := m.player.Poll()
	if err != nil {
		return m, tickCmd()
	}

	pos, err := m.player.GetCurrentPosition()
	if err != nil {
		return m, tickCmd()
	}

	m.positionMS = pos
	m.updateWindow(pos)

	return m, tickCmd()
}

// fetchLyricsCmd fetches lyrics off the update loop and parses the
// synced blob into a fresh timeline; the parse replaces the previous
// timeline atomically when the message lands.
func fetchLyricsCmd(lrclibURL string, trk *track.Info) tea.Cmd {
	return func() tea.Msg {
		if trk == nil {
			return LyricsFetchedMsg{Err: errors.New("nil track")}
		}

		params := &lyrics.TrackParams{
			Title:        trk.Title,
			Artist:       trk.Artist,
			Album:        trk.Album,
			DurationSecs: int64(trk.DurationMS / 1000),
		}

		payload, err := lyrics.Fetch(context.Background(), lrclibURL, params)
		if err != nil {
			return LyricsFetchedMsg{Err: err}
		}

		if payload.Instrumental {
			return LyricsFetchedMsg{Instrumental: true}
		}

		if payload.SyncedLyrics == "" {
			if payload.PlainLyrics == "" {
				return LyricsFetchedMsg{Err: errors.New("no lyrics available")}
			}
			return LyricsFetchedMsg{PlainLyrics: payload.PlainLyrics}
		}

		tl := timeline.Parse(trk.Title, trk.Artist, payload.SyncedLyrics)

		return LyricsFetchedMsg{
			Timeline:     tl,
			PlainLyrics:  payload.PlainLyrics,
			UserOffsetMS: payload.UserOffsetMS,
		}
	}
}
