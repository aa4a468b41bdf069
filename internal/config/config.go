package config

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultMprisService = "org.mpris.MediaPlayer2.audacious"
	DefaultLrclibGetURL = "https://lrclib.net/api/get"
	HTTPTimeoutSeconds  = 10

	// PollInterval is the cadence at which the viewer asks the player
	// for its position and recomputes the display window.
	PollInterval = 100 * time.Millisecond
)

type Config struct {
	MprisService string
	LrclibURL    string

	// SyncOffsetMS shifts the playback position fed into the window
	// selector; positive values make lyrics appear earlier.
	SyncOffsetMS int

	// SyncLyrics gates timed display entirely. When false the viewer
	// shows the full lyrics statically and never selects a window.
	SyncLyrics bool

	HideHeader bool
}

func Load() *Config {
	syncOffset, err := strconv.Atoi(getEnvOrDefault("SYNC_OFFSET_MS", "0"))
	if err != nil {
		syncOffset = 0
	}

	return &Config{
		MprisService: getEnvOrDefault("MPRIS_SERVICE", DefaultMprisService),
		LrclibURL:    getEnvOrDefault("LRCLIB_GET_URL", DefaultLrclibGetURL),
		SyncOffsetMS: syncOffset,
		SyncLyrics:   !isFalsy(getEnvOrDefault("SYNC_LYRICS", "true")),
		HideHeader:   isTruthy(getEnvOrDefault("HIDE_HEADER", "false")),
	}
}

func isTruthy(value string) bool {
	return value == "1" || value == "true" || value == "yes"
}

func isFalsy(value string) bool {
	return value == "0" || value == "false" || value == "no"
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
