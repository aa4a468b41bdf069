package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lecheel/audlyrics/internal/cache"
	"github.com/lecheel/audlyrics/internal/config"
	"github.com/lecheel/audlyrics/internal/lyrics"
	"github.com/lecheel/audlyrics/internal/timeline"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "lyrics search and management",
	Long:  `search for lyrics, pre-fetch to cache, or preview the parsed timeline in the terminal.`,
}

var lyricsSearchCmd = &cobra.Command{
	Use:   "search <artist> <title>",
	Short: "search for lyrics on lrclib",
	Long:  `search for lyrics on lrclib.net and display availability information.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist := args[0]
		title := args[1]

		cfg := config.Load()
		if lrclibURL != "" {
			cfg.LrclibURL = lrclibURL
		}

		fmt.Printf("searching for: %s - %s\n\n", artist, title)

		params := &lyrics.TrackParams{
			Title:  title,
			Artist: artist,
		}

		payload, err := lyrics.Fetch(context.Background(), cfg.LrclibURL, params)
		if err != nil {
			return fmt.Errorf("lyrics not found: %w", err)
		}

		fmt.Printf("found lyrics:\n")
		fmt.Printf("  track:        %s\n", payload.TrackName)
		fmt.Printf("  artist:       %s\n", payload.ArtistName)
		if payload.AlbumName != "" {
			fmt.Printf("  album:        %s\n", payload.AlbumName)
		}
		if payload.Duration > 0 {
			fmt.Printf("  duration:     %.0fs\n", payload.Duration)
		}
		fmt.Printf("  instrumental: %v\n", payload.Instrumental)

		if payload.SyncedLyrics != "" {
			tl := timeline.Parse(payload.TrackName, payload.ArtistName, payload.SyncedLyrics)
			fmt.Printf("  synced lines: %d\n", len(tl.Lines)-1)
		} else {
			fmt.Printf("  synced lines: none\n")
		}

		if payload.PlainLyrics != "" {
			lines := strings.Split(payload.PlainLyrics, "\n")
			fmt.Printf("  plain lines:  %d\n", len(lines))
		} else {
			fmt.Printf("  plain lines:  none\n")
		}

		fmt.Println("\nuse 'audlyrics lyrics fetch' to save to cache")

		return nil
	},
}

var lyricsFetchCmd = &cobra.Command{
	Use:   "fetch <artist> <title>",
	Short: "pre-fetch and cache lyrics",
	Long:  `fetch lyrics from lrclib.net and save them to the local cache for instant loading.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist := args[0]
		title := args[1]

		cfg := config.Load()
		if lrclibURL != "" {
			cfg.LrclibURL = lrclibURL
		}

		diskCache := cache.GetGlobalCache()
		cached, err := diskCache.Get(artist, title)
		if err == nil && cached != nil {
			fmt.Printf("'%s - %s' is already cached\n", artist, title)
			if cached.UserOffsetMS != 0 {
				fmt.Printf("sync offset: %d ms\n", cached.UserOffsetMS)
			}
			return nil
		}

		fmt.Printf("fetching: %s - %s\n", artist, title)

		params := &lyrics.TrackParams{
			Title:  title,
			Artist: artist,
		}

		payload, err := lyrics.Fetch(context.Background(), cfg.LrclibURL, params)
		if err != nil {
			return fmt.Errorf("failed to fetch lyrics: %w", err)
		}

		if payload.SyncedLyrics == "" && payload.PlainLyrics == "" {
			return fmt.Errorf("no lyrics available for this song")
		}

		fmt.Printf("cached successfully: %s - %s\n", payload.ArtistName, payload.TrackName)
		if payload.SyncedLyrics != "" {
			fmt.Println("synced lyrics available")
		} else {
			fmt.Println("only plain lyrics available (no timing)")
		}

		return nil
	},
}

var lyricsPreviewCmd = &cobra.Command{
	Use:   "preview <artist> <title>",
	Short: "preview the parsed lyrics timeline",
	Long:  `display lyrics in the terminal with parsed timestamps (if available).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist := args[0]
		title := args[1]

		cfg := config.Load()
		if lrclibURL != "" {
			cfg.LrclibURL = lrclibURL
		}

		// try cache first
		diskCache := cache.GetGlobalCache()
		cached, err := diskCache.Get(artist, title)

		var payload *lyrics.Response

		if err == nil && cached != nil {
			payload = &lyrics.Response{
				TrackName:    cached.TrackName,
				ArtistName:   cached.ArtistName,
				AlbumName:    cached.AlbumName,
				Duration:     cached.DurationSecs,
				Instrumental: cached.Instrumental,
				PlainLyrics:  cached.PlainLyrics,
				SyncedLyrics: cached.SyncedLyrics,
				UserOffsetMS: cached.UserOffsetMS,
			}
			fmt.Println("(from cache)")
		} else {
			params := &lyrics.TrackParams{
				Title:  title,
				Artist: artist,
			}

			payload, err = lyrics.Fetch(context.Background(), cfg.LrclibURL, params)
			if err != nil {
				suggestions := findSimilarCachedSongs(diskCache, artist, title)
				if len(suggestions) > 0 {
					fmt.Fprintf(os.Stderr, "lyrics not found online\n\n")
					fmt.Fprintf(os.Stderr, "similar songs in cache:\n")
					for _, s := range suggestions {
						fmt.Fprintf(os.Stderr, "  %s - %s\n", s.ArtistName, s.TrackName)
					}
					return fmt.Errorf("")
				}
				return fmt.Errorf("lyrics not found: %w", err)
			}
		}

		fmt.Printf("\n%s - %s\n", payload.ArtistName, payload.TrackName)
		if payload.AlbumName != "" {
			fmt.Printf("%s\n", payload.AlbumName)
		}
		fmt.Println(strings.Repeat("─", 60))

		if payload.Instrumental {
			fmt.Println("\n[instrumental]")
			return nil
		}

		if payload.SyncedLyrics != "" {
			tl := timeline.Parse(payload.TrackName, payload.ArtistName, payload.SyncedLyrics)
			if tl.Empty() {
				fmt.Println("\nno valid synced lyrics found")
				return nil
			}

			fmt.Printf("\nsynced lyrics (%d lines):\n\n", len(tl.Lines)-1)
			for _, line := range tl.Lines[1:] {
				fmt.Printf("[%s] %s\n", formatTimestampMS(line.TimestampMS), line.Text)
			}

			if payload.UserOffsetMS != 0 {
				fmt.Printf("\nsync offset: %d ms\n", payload.UserOffsetMS)
			}
		} else if payload.PlainLyrics != "" {
			fmt.Println("\nplain lyrics (no timestamps):")
			fmt.Println()
			fmt.Println(payload.PlainLyrics)
		} else {
			fmt.Println("\nno lyrics available")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lyricsCmd)

	lyricsCmd.AddCommand(lyricsSearchCmd)
	lyricsCmd.AddCommand(lyricsFetchCmd)
	lyricsCmd.AddCommand(lyricsPreviewCmd)
}

func formatTimestampMS(ms int) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := float64(ms%60000) / 1000
	return fmt.Sprintf("%d:%05.2f", minutes, seconds)
}
