package main

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/lecheel/audlyrics/internal/config"
	"github.com/lecheel/audlyrics/internal/player"
)

var (
	// flag for player test
	testService string
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "mpris player utilities",
	Long:  `discover and test mpris-compatible music players on your system.`,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list available mpris players",
	Long:  `list all mpris-compatible music players currently running on the system.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		var names []string
		err = bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
		if err != nil {
			return fmt.Errorf("failed to list dbus names: %w", err)
		}

		var mprisServices []string
		for _, name := range names {
			if strings.HasPrefix(name, "org.mpris.MediaPlayer2.") {
				mprisServices = append(mprisServices, name)
			}
		}

		if len(mprisServices) == 0 {
			fmt.Println("no mpris players found")
			fmt.Println("\ncheck if your music player is running and supports mpris")
			return nil
		}

		fmt.Printf("found %d mpris player(s):\n\n", len(mprisServices))
		for _, service := range mprisServices {
			identity := getPlayerIdentity(bus, service)
			if identity != "" {
				fmt.Printf("  %s (%s)\n", service, identity)
			} else {
				fmt.Printf("  %s\n", service)
			}
		}

		fmt.Println("\nuse --mpris-service flag to specify which player to use")

		return nil
	},
}

var playerTestCmd = &cobra.Command{
	Use:   "test",
	Short: "test connection to mpris player",
	Long:  `test the connection to an mpris player and display the current track and position.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		serviceName := cfg.MprisService
		if testService != "" {
			serviceName = testService
		}

		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		fmt.Printf("testing connection to: %s\n\n", serviceName)

		playerService, err := player.NewService(bus, serviceName)
		if err != nil {
			return fmt.Errorf("failed to connect to player: %w", err)
		}

		trk, err := playerService.GetCurrentTrack()
		if err != nil {
			return fmt.Errorf("failed to read current track: %w", err)
		}

		pos, err := playerService.GetCurrentPosition()
		if err != nil {
			return fmt.Errorf("failed to read playback position: %w", err)
		}

		fmt.Println("connection ok")
		fmt.Printf("  track:    %s\n", trk)
		if trk.Album != "" {
			fmt.Printf("  album:    %s\n", trk.Album)
		}
		fmt.Printf("  position: %d ms\n", pos)
		if trk.DurationMS > 0 {
			fmt.Printf("  duration: %d ms\n", trk.DurationMS)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerTestCmd)

	playerTestCmd.Flags().StringVar(&testService, "service", "", "mpris service name to test")
}

func getPlayerIdentity(bus *dbus.Conn, service string) string {
	obj := bus.Object(service, "/org/mpris/MediaPlayer2")
	if obj == nil {
		return ""
	}

	prop, err := obj.GetProperty("org.mpris.MediaPlayer2.Identity")
	if err != nil {
		return ""
	}

	identity, ok := prop.Value().(string)
	if !ok {
		return ""
	}

	return identity
}
