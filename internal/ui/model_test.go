package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lecheel/audlyrics/internal/timeline"
	"github.com/lecheel/audlyrics/internal/track"
)

func newTestModel() Model {
	return NewModel(ModelConfig{
		LrclibURL:  "http://example.invalid",
		SyncLyrics: true,
	})
}

func testTimeline() *timeline.Timeline {
	return timeline.Parse("Song", "Artist",
		"[00:01.0]one\n[00:02.0]two\n[00:03.0]three\n[00:04.0]four")
}

func TestWindowSizeMsgUpdatesDimensions(t *testing.T) {
	model, _ := newTestModel().Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m := model.(Model)
	if m.Width() != 100 || m.Height() != 40 {
		t.Fatalf("dimensions = (%d, %d), want (100, 40)", m.Width(), m.Height())
	}
}

func TestLyricsFetchedReplacesTimeline(t *testing.T) {
	m := newTestModel()
	m.display.Track = &track.Info{Title: "Song", Artist: "Artist"}
	m.loadingLyrics = true

	model, _ := m.Update(LyricsFetchedMsg{Timeline: testTimeline()})

	got := model.(Model)
	if got.IsLoadingLyrics() {
		t.Fatal("still loading after lyrics arrived")
	}
	if got.display.Timeline == nil || got.display.Timeline.Empty() {
		t.Fatal("timeline not installed")
	}
}

func TestLyricsFetchedErrorClearsTimeline(t *testing.T) {
	m := newTestModel()
	m.display.Timeline = testTimeline()

	model, _ := m.Update(LyricsFetchedMsg{Err: errors.New("no lyrics found")})

	got := model.(Model)
	if got.Err() == nil {
		t.Fatal("expected error to be surfaced")
	}
	if got.display.Timeline != nil {
		t.Fatal("stale timeline kept after error")
	}
}

func TestLyricsFetchedRestoresSavedOffset(t *testing.T) {
	m := newTestModel()

	model, _ := m.Update(LyricsFetchedMsg{Timeline: testTimeline(), UserOffsetMS: 250})

	got := model.(Model)
	if got.UserOffsetMS() != 250 {
		t.Fatalf("UserOffsetMS() = %d, want 250", got.UserOffsetMS())
	}
}

func TestUpdateWindowSelectsLines(t *testing.T) {
	m := newTestModel()
	m.display.Timeline = testTimeline()

	if changed := m.updateWindow(2500); !changed {
		t.Fatal("updateWindow() = false on first selection")
	}

	window := m.Window()
	if len(window) == 0 || len(window) > 4 {
		t.Fatalf("window length = %d, want 1..4", len(window))
	}

	// same position again is a no-op
	if changed := m.updateWindow(2500); changed {
		t.Fatal("updateWindow() = true for unchanged position")
	}
}

func TestUpdateWindowRespectsGate(t *testing.T) {
	m := newTestModel()
	m.syncLyrics = false
	m.display.Timeline = testTimeline()

	if changed := m.updateWindow(2500); changed {
		t.Fatal("updateWindow() selected lines with sync disabled")
	}
	if m.Window() != nil {
		t.Fatalf("window = %+v, want nil with sync disabled", m.Window())
	}
}

func TestUpdateWindowPastEndIsEmpty(t *testing.T) {
	m := newTestModel()
	m.display.Timeline = testTimeline()

	m.updateWindow(2500)
	if changed := m.updateWindow(60_000); !changed {
		t.Fatal("updateWindow() = false when window emptied")
	}
	if len(m.Window()) != 0 {
		t.Fatalf("window = %+v, want empty past the last line", m.Window())
	}
}

func TestSyncToggleKey(t *testing.T) {
	m := newTestModel()
	m.display.Timeline = testTimeline()
	m.display.Window = m.display.Timeline.Window(0)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	got := model.(Model)
	if got.SyncEnabled() {
		t.Fatal("SyncEnabled() = true after toggle")
	}
	if got.Window() != nil {
		t.Fatal("window not cleared when sync disabled")
	}
}

func TestHeaderToggleKey(t *testing.T) {
	model, _ := newTestModel().Update(tea.KeyMsg{Type: tea.KeyTab})
	if !model.(Model).HideHeader() {
		t.Fatal("HideHeader() = false after tab")
	}
}

func TestQuitKey(t *testing.T) {
	model, cmd := newTestModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !model.(Model).IsQuitting() {
		t.Fatal("IsQuitting() = false after q")
	}
}

func TestViewRendersWithoutTrack(t *testing.T) {
	m := newTestModel()
	m.width = 60
	m.height = 10

	out := m.View()
	if out == "" {
		t.Fatal("View() returned empty string")
	}
}
