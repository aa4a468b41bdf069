package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// global flags
	mprisService string
	syncOffsetMS int
	hideHeader   bool
	lrclibURL    string
	noSync       bool
)

var rootCmd = &cobra.Command{
	Use:   "audlyrics",
	Short: "terminal-based synchronized lyrics viewer",
	Long: `audlyrics is a terminal-based synchronized lyrics viewer for linux music players.
it follows the playback position over mpris and highlights the lyric line being sung.

when run without a subcommand, it starts the interactive viewer.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		// default behavior: run the viewer
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.audacious)")
	rootCmd.PersistentFlags().IntVarP(&syncOffsetMS, "sync-offset-ms", "s", 0, "initial sync offset in milliseconds")
	rootCmd.PersistentFlags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide header section")
	rootCmd.PersistentFlags().StringVar(&lrclibURL, "lrclib-url", "", "custom lrclib api url")
	rootCmd.PersistentFlags().BoolVar(&noSync, "no-sync", false, "disable timed display, show lyrics statically")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
