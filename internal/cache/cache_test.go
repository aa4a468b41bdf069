package cache

import (
	"testing"
)

func newTestCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := NewDiskCache()
	if err != nil {
		t.Fatalf("NewDiskCache() error = %v", err)
	}
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)

	entry := &LyricEntry{
		TrackName:    "Song",
		ArtistName:   "Artist",
		SyncedLyrics: "[00:01.0]hello",
		UserOffsetMS: 250,
	}

	if err := c.Set("Artist", "Song", entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get("Artist", "Song")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SyncedLyrics != entry.SyncedLyrics {
		t.Fatalf("SyncedLyrics = %q, want %q", got.SyncedLyrics, entry.SyncedLyrics)
	}
	if got.UserOffsetMS != 250 {
		t.Fatalf("UserOffsetMS = %d, want 250", got.UserOffsetMS)
	}
}

func TestCacheKeyIsCaseInsensitive(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("Artist", "Song", &LyricEntry{TrackName: "Song"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := c.Get("ARTIST", "song"); err != nil {
		t.Fatalf("Get() with different case error = %v", err)
	}
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	if _, err := c.Get("Nobody", "Nothing"); err != ErrCacheMiss {
		t.Fatalf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("Artist", "Song", &LyricEntry{TrackName: "Song"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete("Artist", "Song"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get("Artist", "Song"); err != ErrCacheMiss {
		t.Fatalf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestCacheClearAndStats(t *testing.T) {
	c := newTestCache(t)

	_ = c.Set("A", "one", &LyricEntry{TrackName: "one"})
	_ = c.Set("B", "two", &LyricEntry{TrackName: "two"})

	count, size, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if count != 2 || size <= 0 {
		t.Fatalf("Stats() = (%d, %d), want 2 entries with nonzero size", count, size)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	count, _, err = c.Stats()
	if err != nil {
		t.Fatalf("Stats() after clear error = %v", err)
	}
	if count != 0 {
		t.Fatalf("Stats() count after clear = %d, want 0", count)
	}
}
