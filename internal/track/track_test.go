package track

import "testing"

func TestIsValid(t *testing.T) {
	var nilInfo *Info
	if nilInfo.IsValid() {
		t.Fatal("nil Info should not be valid")
	}
	if (&Info{Title: "Song"}).IsValid() {
		t.Fatal("missing artist should not be valid")
	}
	if !(&Info{Title: "Song", Artist: "Artist"}).IsValid() {
		t.Fatal("title + artist should be valid")
	}
}

func TestIsSameTrack(t *testing.T) {
	t.Run("track id wins over metadata", func(t *testing.T) {
		a := &Info{Title: "Song", Artist: "X", TrackID: "/track/1"}
		b := &Info{Title: "Other", Artist: "Y", TrackID: "/track/1"}
		if !a.IsSameTrack(b) {
			t.Fatal("same track id should match")
		}
	})

	t.Run("falls back to title and artist", func(t *testing.T) {
		a := &Info{Title: "Song", Artist: "X"}
		b := &Info{Title: "Song", Artist: "X"}
		if !a.IsSameTrack(b) {
			t.Fatal("same title/artist should match")
		}

		c := &Info{Title: "Song", Artist: "Y"}
		if a.IsSameTrack(c) {
			t.Fatal("different artist should not match")
		}
	})

	t.Run("nil handling", func(t *testing.T) {
		var a *Info
		if a.IsSameTrack(&Info{}) {
			t.Fatal("nil vs non-nil should not match")
		}
		if !a.IsSameTrack(nil) {
			t.Fatal("nil vs nil should match")
		}
	})
}

func TestString(t *testing.T) {
	var nilInfo *Info
	if got := nilInfo.String(); got != "(no track)" {
		t.Fatalf("String() = %q", got)
	}
	info := &Info{Title: "Song", Artist: "Artist"}
	if got := info.String(); got != "Artist - Song" {
		t.Fatalf("String() = %q", got)
	}
}
