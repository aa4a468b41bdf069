package player

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestTrackFromMetadata(t *testing.T) {
	metadata := map[string]dbus.Variant{
		"xesam:title":   dbus.MakeVariant("Song"),
		"xesam:artist":  dbus.MakeVariant([]string{"Artist", "Guest"}),
		"xesam:album":   dbus.MakeVariant("Album"),
		"mpris:trackid": dbus.MakeVariant("/org/mpris/MediaPlayer2/Track/1"),
		"mpris:length":  dbus.MakeVariant(int64(180_000_000)), // microseconds
	}

	info := trackFromMetadata(metadata)

	if info.Title != "Song" {
		t.Fatalf("Title = %q, want %q", info.Title, "Song")
	}
	if info.Artist != "Artist" {
		t.Fatalf("Artist = %q, want %q", info.Artist, "Artist")
	}
	if info.DurationMS != 180_000 {
		t.Fatalf("DurationMS = %d, want 180000", info.DurationMS)
	}
	if !info.IsValid() {
		t.Fatal("IsValid() = false, want true")
	}
}

func TestTrackFromMetadataMissingFields(t *testing.T) {
	info := trackFromMetadata(map[string]dbus.Variant{})
	if info.IsValid() {
		t.Fatal("IsValid() = true for empty metadata, want false")
	}
}

func TestExtractArtistSingleString(t *testing.T) {
	metadata := map[string]dbus.Variant{
		"xesam:artist": dbus.MakeVariant("Solo"),
	}
	if got := extractArtist(metadata, "xesam:artist"); got != "Solo" {
		t.Fatalf("extractArtist() = %q, want %q", got, "Solo")
	}
}

func TestExtractDurationMS(t *testing.T) {
	cases := []struct {
		name string
		val  dbus.Variant
		want int
	}{
		{"int64 microseconds", dbus.MakeVariant(int64(5_000_000)), 5000},
		{"uint64 microseconds", dbus.MakeVariant(uint64(2_500_000)), 2500},
		{"negative", dbus.MakeVariant(int64(-1)), 0},
		{"wrong type", dbus.MakeVariant("nope"), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := map[string]dbus.Variant{"mpris:length": tc.val}
			if got := extractDurationMS(metadata, "mpris:length"); got != tc.want {
				t.Fatalf("extractDurationMS() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDetectSeek(t *testing.T) {
	t.Run("no history means no seek", func(t *testing.T) {
		s := &State{}
		if s.DetectSeek(60_000) {
			t.Fatal("DetectSeek() = true with no prior position")
		}
	})

	t.Run("small drift is not a seek", func(t *testing.T) {
		s := &State{}
		s.UpdatePosition(10_000)
		if s.DetectSeek(11_000) {
			t.Fatal("DetectSeek() = true for 1s drift")
		}
	})

	t.Run("large jump is a seek", func(t *testing.T) {
		s := &State{}
		s.UpdatePosition(10_000)
		if !s.DetectSeek(60_000) {
			t.Fatal("DetectSeek() = false for 50s jump")
		}
	})

	t.Run("jump backwards is a seek", func(t *testing.T) {
		s := &State{
			lastPositionMS:     60_000,
			lastPositionUpdate: time.Now(),
		}
		if !s.DetectSeek(5_000) {
			t.Fatal("DetectSeek() = false for backwards jump")
		}
	})
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(nil, "org.mpris.MediaPlayer2.audacious"); err == nil {
		t.Fatal("expected error for nil bus")
	}
}
