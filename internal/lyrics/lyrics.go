package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lecheel/audlyrics/internal/cache"
	"github.com/lecheel/audlyrics/internal/config"
)

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

// Response is an lrclib payload. SyncedLyrics is the raw tagged blob
// handed to timeline.Parse; UserOffsetMS is restored from the cache.
type Response struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
	UserOffsetMS int     `json:"-"`
}

type TrackParams struct {
	Title        string
	Artist       string
	Album        string
	DurationSecs int64
}

func getHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   time.Duration(config.HTTPTimeoutSeconds) * time.Second,
		}
	})
	return httpClient
}

// normalizeString cleans track/artist names for better matching
func normalizeString(s string) string {
	s = strings.TrimSpace(s)

	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	return strings.TrimSpace(s)
}

// stripVersionInfo removes text in parentheses and brackets (remixes, versions, etc)
func stripVersionInfo(s string) string {
	s = strings.TrimSpace(s)

	for strings.Contains(s, "(") && strings.Contains(s, ")") {
		start := strings.Index(s, "(")
		end := strings.Index(s, ")")
		if end > start {
			s = s[:start] + " " + s[end+1:]
		} else {
			break
		}
	}

	for strings.Contains(s, "[") && strings.Contains(s, "]") {
		start := strings.Index(s, "[")
		end := strings.Index(s, "]")
		if end > start {
			s = s[:start] + " " + s[end+1:]
		} else {
			break
		}
	}

	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	return strings.TrimSpace(s)
}

func toTitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// Fetch looks a track up in the persistent cache and then on lrclib,
// trying progressively looser search variants of the artist and title.
func Fetch(parentCtx context.Context, baseURL string, track *TrackParams) (*Response, error) {
	if track == nil {
		return nil, errors.New("nil track info")
	}
	if track.Title == "" || track.Artist == "" {
		return nil, errors.New("track title or artist is empty")
	}
	if baseURL == "" {
		return nil, errors.New("lrclib base url is empty")
	}

	diskCache := cache.GetGlobalCache()

	normalizedArtist := normalizeString(track.Artist)
	normalizedTitle := normalizeString(track.Title)
	strippedArtist := stripVersionInfo(track.Artist)
	strippedTitle := stripVersionInfo(track.Title)

	if normalizedTitle == "" || normalizedArtist == "" {
		return nil, errors.New("track title or artist is empty after normalization")
	}

	// cache keys use the original values
	cached, err := diskCache.Get(track.Artist, track.Title)
	if err == nil && cached != nil {
		return &Response{
			TrackName:    cached.TrackName,
			ArtistName:   cached.ArtistName,
			AlbumName:    cached.AlbumName,
			Duration:     cached.DurationSecs,
			Instrumental: cached.Instrumental,
			PlainLyrics:  cached.PlainLyrics,
			SyncedLyrics: cached.SyncedLyrics,
			UserOffsetMS: cached.UserOffsetMS,
		}, nil
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid lrclib url %q: %w", baseURL, err)
	}

	type searchStrategy struct {
		artist   string
		title    string
		album    string
		duration int64
	}

	searchStrategies := []searchStrategy{
		// exact metadata first, then progressively looser
		{normalizedArtist, normalizedTitle, track.Album, track.DurationSecs},
		{normalizedArtist, normalizedTitle, "", track.DurationSecs},
		{normalizedArtist, normalizedTitle, "", 0},
		{strippedArtist, strippedTitle, "", 0},
		{strings.ToUpper(normalizedArtist), strings.ToUpper(normalizedTitle), "", 0},
		{strings.ToLower(normalizedArtist), strings.ToLower(normalizedTitle), "", 0},
		{toTitleCase(normalizedArtist), toTitleCase(normalizedTitle), "", 0},
		{track.Artist, track.Title, "", 0},
	}

	seen := make(map[string]bool)
	var uniqueStrategies []searchStrategy

	for _, strategy := range searchStrategies {
		if strategy.artist == "" || strategy.title == "" {
			continue
		}

		key := fmt.Sprintf("%s|%s|%s|%d", strategy.artist, strategy.title, strategy.album, strategy.duration)
		if !seen[key] {
			seen[key] = true
			uniqueStrategies = append(uniqueStrategies, strategy)
		}
	}

	var lastErr error
	for strategyIdx, strategy := range uniqueStrategies {
		query := parsedURL.Query()
		query.Set("artist_name", strategy.artist)
		query.Set("track_name", strategy.title)
		if strategy.album != "" {
			query.Set("album_name", strategy.album)
		}
		if strategy.duration > 0 {
			query.Set("duration", fmt.Sprintf("%d", strategy.duration))
		}
		parsedURL.RawQuery = query.Encode()

		// small delay between strategies to avoid hammering the server
		if strategyIdx > 0 {
			select {
			case <-parentCtx.Done():
				return nil, parentCtx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}

		payload, err := doFetchRequest(parentCtx, parsedURL.String())
		if err == nil {
			if payload.PlainLyrics == "" && payload.SyncedLyrics == "" && !payload.Instrumental {
				lastErr = fmt.Errorf("no lyrics in response")
				continue
			}

			_ = diskCache.Set(track.Artist, track.Title, &cache.LyricEntry{
				TrackName:    payload.TrackName,
				ArtistName:   payload.ArtistName,
				AlbumName:    payload.AlbumName,
				DurationSecs: payload.Duration,
				Instrumental: payload.Instrumental,
				PlainLyrics:  payload.PlainLyrics,
				SyncedLyrics: payload.SyncedLyrics,
				UserOffsetMS: payload.UserOffsetMS,
			})

			return payload, nil
		}

		lastErr = err

		// 404s fall through to the next strategy; only genuine network
		// timeouts abort the whole search
		if isTimeoutError(err) {
			return nil, errors.New("lyrics server took too long to respond")
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no lyrics found for %s - %s: %w", track.Artist, track.Title, lastErr)
	}
	return nil, fmt.Errorf("no lyrics found for %s - %s (tried multiple search variations)", track.Artist, track.Title)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline exceeded") ||
		strings.Contains(err.Error(), "i/o timeout")
}

func doFetchRequest(parentCtx context.Context, requestURL string) (*Response, error) {
	timeout := time.Duration(config.HTTPTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}

	req.Header.Set("User-Agent", "audlyrics/1.0")

	client := getHTTPClient()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("status 404: lyrics not found")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("lrclib returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lrclib response: %w", err)
	}

	var payload Response
	err = json.Unmarshal(body, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lrclib json: %w", err)
	}

	return &payload, nil
}
