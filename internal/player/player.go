// Package player tracks an MPRIS 2 media player over the session bus.
// All positions are reported in milliseconds, the unit the lyrics
// timeline works in.
package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/lecheel/audlyrics/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"

	// position jumps beyond this are treated as seeks
	seekThresholdMS = 3000
)

type Event int

const (
	EventTrackChanged Event = iota
	EventSeeked
	EventPlaybackStateChanged
)

type EventData struct {
	Type       Event
	Track      *track.Info
	PositionMS int
	Playing    bool
}

type State struct {
	Track              *track.Info
	PositionMS         int
	Playing            bool
	lastPositionUpdate time.Time
	lastPositionMS     int
}

// DetectSeek reports whether newPositionMS is too far from where the
// track should be given wall-clock time since the last update.
func (s *State) DetectSeek(newPositionMS int) bool {
	if s.lastPositionUpdate.IsZero() {
		return false
	}

	elapsed := time.Since(s.lastPositionUpdate)
	expectedPos := s.lastPositionMS + int(elapsed.Milliseconds())

	diff := newPositionMS - expectedPos
	if diff < 0 {
		diff = -diff
	}

	return diff > seekThresholdMS
}

func (s *State) UpdatePosition(positionMS int) {
	s.PositionMS = positionMS
	s.lastPositionMS = positionMS
	s.lastPositionUpdate = time.Now()
}

type Service struct {
	bus        *dbus.Conn
	service    string
	signalChan chan *dbus.Signal
	stopChan   chan struct{}
	stopOnce   sync.Once
	eventChan  chan EventData
	state      *State
	mu         sync.RWMutex
}

func NewService(bus *dbus.Conn, mprisService string) (*Service, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if mprisService == "" {
		return nil, errors.New("empty mpris service name")
	}

	return &Service{
		bus:       bus,
		service:   mprisService,
		eventChan: make(chan EventData, 16),
		state:     &State{},
	}, nil
}

func (s *Service) Start() error {
	signalChan := make(chan *dbus.Signal, 10)
	s.signalChan = signalChan
	s.stopChan = make(chan struct{})

	s.bus.Signal(signalChan)

	matchPropertiesChanged := fmt.Sprintf(
		"type='signal',sender='%s',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',path='%s'",
		s.service, mprisPath,
	)
	matchSeeked := fmt.Sprintf(
		"type='signal',sender='%s',interface='%s',member='Seeked',path='%s'",
		s.service, mprisPlayerIface, mprisPath,
	)

	err := s.bus.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchPropertiesChanged).Err
	if err != nil {
		return fmt.Errorf("failed to add properties match: %w", err)
	}

	err = s.bus.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchSeeked).Err
	if err != nil {
		return fmt.Errorf("failed to add seeked match: %w", err)
	}

	go s.signalLoop()

	return nil
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		if s.stopChan != nil {
			close(s.stopChan)
		}
	})
}

func (s *Service) Events() <-chan EventData {
	return s.eventChan
}

func (s *Service) GetCurrentTrack() (*track.Info, error) {
	obj := s.bus.Object(s.service, mprisPath)
	if obj == nil {
		return nil, errors.New("nil dbus object")
	}

	prop, err := obj.GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}

	value := prop.Value()
	if value == nil {
		return nil, errors.New("metadata value is nil")
	}

	metadata, ok := value.(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", value)
	}

	info := trackFromMetadata(metadata)
	if !info.IsValid() {
		return nil, fmt.Errorf("missing title or artist in metadata (title=%q, artist=%q)", info.Title, info.Artist)
	}

	return info, nil
}

// GetCurrentPosition returns the playback position in milliseconds.
func (s *Service) GetCurrentPosition() (int, error) {
	obj := s.bus.Object(s.service, mprisPath)
	if obj == nil {
		return 0, errors.New("nil dbus object")
	}

	prop, err := obj.GetProperty(mprisPlayerIface + ".Position")
	if err != nil {
		return 0, fmt.Errorf("failed to get position property: %w", err)
	}

	value := prop.Value()
	if value == nil {
		return 0, errors.New("position value is nil")
	}

	positionMicroseconds, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected position type %T", value)
	}
	if positionMicroseconds < 0 {
		return 0, nil
	}

	return int(positionMicroseconds / 1000), nil
}

// Poll reads the current track and position, updates the internal
// state and emits track-change or seek events as needed.
func (s *Service) Poll() error {
	trk, err := s.GetCurrentTrack()
	if err != nil {
		return err
	}

	pos, err := s.GetCurrentPosition()
	if err != nil {
		return err
	}

	s.mu.Lock()
	currentTrack := s.state.Track
	seekDetected := s.state.DetectSeek(pos)
	s.state.UpdatePosition(pos)

	if !trk.IsSameTrack(currentTrack) {
		s.state.Track = trk
		s.mu.Unlock()
		s.emitEvent(EventData{Type: EventTrackChanged, Track: trk, PositionMS: pos})
		return nil
	}
	s.mu.Unlock()

	if seekDetected {
		s.emitEvent(EventData{Type: EventSeeked, PositionMS: pos})
	}

	return nil
}

func (s *Service) signalLoop() {
	for {
		select {
		case sig, ok := <-s.signalChan:
			if !ok {
				return
			}
			s.handleSignal(sig)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleSignal(sig *dbus.Signal) {
	if sig == nil {
		return
	}

	switch sig.Name {
	case "org.freedesktop.DBus.Properties.PropertiesChanged":
		s.handlePropertiesChanged(sig)
	case "org.mpris.MediaPlayer2.Player.Seeked":
		s.handleSeeked(sig)
	}
}

func (s *Service) handlePropertiesChanged(sig *dbus.Signal) {
	if len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != mprisPlayerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	if metadataVariant, exists := changedProps["Metadata"]; exists {
		metadata, ok := metadataVariant.Value().(map[string]dbus.Variant)
		if !ok {
			return
		}

		info := trackFromMetadata(metadata)
		if info.IsValid() {
			s.mu.Lock()
			s.state.Track = info
			s.state.lastPositionUpdate = time.Now()
			s.state.lastPositionMS = 0
			s.mu.Unlock()

			s.emitEvent(EventData{Type: EventTrackChanged, Track: info})
		}
	}

	if playbackVariant, exists := changedProps["PlaybackStatus"]; exists {
		status, ok := playbackVariant.Value().(string)
		if ok {
			playing := status == "Playing"
			s.mu.Lock()
			s.state.Playing = playing
			s.state.lastPositionUpdate = time.Now()
			s.mu.Unlock()

			s.emitEvent(EventData{Type: EventPlaybackStateChanged, Playing: playing})
		}
	}
}

func (s *Service) handleSeeked(sig *dbus.Signal) {
	if len(sig.Body) < 1 {
		return
	}

	positionMicroseconds, ok := sig.Body[0].(int64)
	if !ok || positionMicroseconds < 0 {
		return
	}

	pos := int(positionMicroseconds / 1000)

	s.mu.Lock()
	s.state.UpdatePosition(pos)
	s.mu.Unlock()

	s.emitEvent(EventData{Type: EventSeeked, PositionMS: pos})
}

func (s *Service) emitEvent(event EventData) {
	select {
	case s.eventChan <- event:
	default:
	}
}

func trackFromMetadata(metadata map[string]dbus.Variant) *track.Info {
	return &track.Info{
		Title:      extractString(metadata, "xesam:title"),
		Artist:     extractArtist(metadata, "xesam:artist"),
		Album:      extractString(metadata, "xesam:album"),
		TrackID:    extractString(metadata, "mpris:trackid"),
		DurationMS: extractDurationMS(metadata, "mpris:length"),
	}
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	if metadata == nil {
		return ""
	}

	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	raw := variant.Value()
	if raw == nil {
		return ""
	}

	text, ok := raw.(string)
	if ok {
		return text
	}

	return ""
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	if metadata == nil {
		return ""
	}

	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	raw := variant.Value()
	if raw == nil {
		return ""
	}

	switch typed := raw.(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

func extractDurationMS(metadata map[string]dbus.Variant, key string) int {
	if metadata == nil {
		return 0
	}

	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	raw := variant.Value()
	if raw == nil {
		return 0
	}

	switch typed := raw.(type) {
	case int64:
		if typed <= 0 {
			return 0
		}
		return int(typed / 1000)
	case uint64:
		if typed == 0 {
			return 0
		}
		return int(typed / 1000)
	default:
		return 0
	}
}

// GetState returns a copy of the tracked player state.
func (s *Service) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stateCopy := State{
		PositionMS: s.state.PositionMS,
		Playing:    s.state.Playing,
	}

	if s.state.Track != nil {
		trackCopy := *s.state.Track
		stateCopy.Track = &trackCopy
	}

	return stateCopy
}
