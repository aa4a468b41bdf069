package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MPRIS_SERVICE", "")
	t.Setenv("LRCLIB_GET_URL", "")
	t.Setenv("SYNC_OFFSET_MS", "")
	t.Setenv("SYNC_LYRICS", "")
	t.Setenv("HIDE_HEADER", "")

	cfg := Load()

	if cfg.MprisService != DefaultMprisService {
		t.Fatalf("MprisService = %q, want %q", cfg.MprisService, DefaultMprisService)
	}
	if cfg.LrclibURL != DefaultLrclibGetURL {
		t.Fatalf("LrclibURL = %q, want %q", cfg.LrclibURL, DefaultLrclibGetURL)
	}
	if cfg.SyncOffsetMS != 0 {
		t.Fatalf("SyncOffsetMS = %d, want 0", cfg.SyncOffsetMS)
	}
	if !cfg.SyncLyrics {
		t.Fatal("SyncLyrics = false by default, want true")
	}
	if cfg.HideHeader {
		t.Fatal("HideHeader = true by default, want false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MPRIS_SERVICE", "org.mpris.MediaPlayer2.mpv")
	t.Setenv("SYNC_OFFSET_MS", "-250")
	t.Setenv("SYNC_LYRICS", "false")
	t.Setenv("HIDE_HEADER", "1")

	cfg := Load()

	if cfg.MprisService != "org.mpris.MediaPlayer2.mpv" {
		t.Fatalf("MprisService = %q", cfg.MprisService)
	}
	if cfg.SyncOffsetMS != -250 {
		t.Fatalf("SyncOffsetMS = %d, want -250", cfg.SyncOffsetMS)
	}
	if cfg.SyncLyrics {
		t.Fatal("SyncLyrics = true with SYNC_LYRICS=false")
	}
	if !cfg.HideHeader {
		t.Fatal("HideHeader = false with HIDE_HEADER=1")
	}
}

func TestLoadBadOffsetFallsBack(t *testing.T) {
	t.Setenv("SYNC_OFFSET_MS", "not-a-number")

	cfg := Load()
	if cfg.SyncOffsetMS != 0 {
		t.Fatalf("SyncOffsetMS = %d, want 0 for malformed value", cfg.SyncOffsetMS)
	}
}
