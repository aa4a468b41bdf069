package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lecheel/audlyrics/internal/cache"
)

var (
	// flags for cache list
	cacheSortBy  string
	cacheConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage the lyrics cache",
	Long:  `manage cached lyrics data, including viewing statistics, listing entries, and clearing the cache.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache statistics",
	Long:  `display cache statistics including number of entries, total size, and cache location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		diskCache := cache.GetGlobalCache()

		count, sizeBytes, err := diskCache.Stats()
		if err != nil {
			return fmt.Errorf("failed to get cache stats: %w", err)
		}

		cacheDir, _ := cache.Directory()

		fmt.Println("cache statistics:")
		fmt.Printf("  location: %s\n", cacheDir)
		fmt.Printf("  entries:  %d\n", count)
		fmt.Printf("  size:     %s\n", formatBytes(sizeBytes))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list all cached songs",
	Long:  `list all songs in the cache with their sync offsets and cache date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		diskCache := cache.GetGlobalCache()

		entries, err := diskCache.ListAll()
		if err != nil {
			return fmt.Errorf("failed to list cache: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		sortCacheEntries(entries, cacheSortBy)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ARTIST\tTITLE\tSYNC OFFSET\tCACHED")

		for _, entry := range entries {
			offsetStr := fmt.Sprintf("%d ms", entry.UserOffsetMS)
			if entry.UserOffsetMS == 0 {
				offsetStr = "-"
			}
			cacheDate := time.Unix(entry.CreatedAt, 0).Format("2006-01-02")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.ArtistName, entry.TrackName, offsetStr, cacheDate)
		}

		w.Flush()

		fmt.Printf("\ntotal: %d songs\n", len(entries))

		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <artist> <title>",
	Short: "show cached entry for specific song",
	Long:  `display detailed information about a cached song including lyrics and sync offset.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist := args[0]
		title := args[1]

		diskCache := cache.GetGlobalCache()
		entry, err := diskCache.Get(artist, title)
		if err != nil {
			suggestions := findSimilarCachedSongs(diskCache, artist, title)
			if len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "song not found in cache\n\n")
				fmt.Fprintf(os.Stderr, "did you mean one of these?\n")
				for _, s := range suggestions {
					fmt.Fprintf(os.Stderr, "  %s - %s\n", s.ArtistName, s.TrackName)
				}
				return fmt.Errorf("")
			}
			return fmt.Errorf("song not found in cache: %w", err)
		}

		fmt.Printf("artist:       %s\n", entry.ArtistName)
		fmt.Printf("title:        %s\n", entry.TrackName)
		if entry.AlbumName != "" {
			fmt.Printf("album:        %s\n", entry.AlbumName)
		}
		if entry.DurationSecs > 0 {
			fmt.Printf("duration:     %.1fs\n", entry.DurationSecs)
		}
		fmt.Printf("instrumental: %v\n", entry.Instrumental)
		fmt.Printf("sync offset:  %d ms\n", entry.UserOffsetMS)
		fmt.Printf("cached:       %s\n", time.Unix(entry.CreatedAt, 0).Format("2006-01-02 15:04"))
		fmt.Printf("expires:      %s\n", time.Unix(entry.ExpiresAt, 0).Format("2006-01-02 15:04"))

		if entry.SyncedLyrics != "" {
			fmt.Printf("synced lines: %d\n", len(strings.Split(entry.SyncedLyrics, "\n")))
		}
		if entry.PlainLyrics != "" {
			fmt.Printf("plain lines:  %d\n", len(strings.Split(entry.PlainLyrics, "\n")))
		}

		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "clear the entire cache",
	Long:  `remove all cached lyrics. requires --yes to confirm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheConfirm {
			return fmt.Errorf("refusing to clear without --yes")
		}

		diskCache := cache.GetGlobalCache()
		if err := diskCache.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Println("cache cleared")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "remove expired cache entries",
	Long:  `remove expired or corrupt entries from the cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		diskCache := cache.GetGlobalCache()

		pruned, err := diskCache.Prune()
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}

		fmt.Printf("pruned %d entries\n", pruned)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <artist> <title>",
	Short: "delete a cached song",
	Long:  `remove a single song from the cache.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist := args[0]
		title := args[1]

		diskCache := cache.GetGlobalCache()
		if err := diskCache.Delete(artist, title); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("deleted: %s - %s\n", artist, title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)

	cacheListCmd.Flags().StringVar(&cacheSortBy, "sort", "artist", "sort by: artist, title, date")
	cacheClearCmd.Flags().BoolVar(&cacheConfirm, "yes", false, "confirm clearing the cache")
}

func sortCacheEntries(entries []*cache.LyricEntry, sortBy string) {
	switch sortBy {
	case "title":
		sort.Slice(entries, func(a, b int) bool {
			return strings.ToLower(entries[a].TrackName) < strings.ToLower(entries[b].TrackName)
		})
	case "date":
		sort.Slice(entries, func(a, b int) bool {
			return entries[a].CreatedAt > entries[b].CreatedAt
		})
	default:
		sort.Slice(entries, func(a, b int) bool {
			return strings.ToLower(entries[a].ArtistName) < strings.ToLower(entries[b].ArtistName)
		})
	}
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func findSimilarCachedSongs(diskCache *cache.DiskCache, artist string, title string) []*cache.LyricEntry {
	allEntries, err := diskCache.ListAll()
	if err != nil || len(allEntries) == 0 {
		return nil
	}

	var matches []*cache.LyricEntry
	artistLower := strings.ToLower(artist)
	titleLower := strings.ToLower(title)

	// first pass: exact artist match with fuzzy title
	for _, entry := range allEntries {
		if strings.ToLower(entry.ArtistName) == artistLower {
			entryTitleLower := strings.ToLower(entry.TrackName)
			if strings.Contains(entryTitleLower, titleLower) || strings.Contains(titleLower, entryTitleLower) {
				matches = append(matches, entry)
			}
		}
	}

	if len(matches) > 0 {
		if len(matches) > 5 {
			matches = matches[:5]
		}
		return matches
	}

	// second pass: fuzzy on both artist and title
	for _, entry := range allEntries {
		entryArtistLower := strings.ToLower(entry.ArtistName)
		entryTitleLower := strings.ToLower(entry.TrackName)

		artistMatch := strings.Contains(entryArtistLower, artistLower) || strings.Contains(artistLower, entryArtistLower)
		titleMatch := strings.Contains(entryTitleLower, titleLower) || strings.Contains(titleLower, entryTitleLower)

		if artistMatch && titleMatch {
			matches = append(matches, entry)
		}
	}

	if len(matches) > 5 {
		matches = matches[:5]
	}

	return matches
}
