// Package timeline turns raw LRC-style lyrics text into a sorted
// sequence of millisecond-stamped lines and selects the small window
// of lines to display for a given playback position.
package timeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// headerTimestampMS is the placeholder stamp for the synthetic
	// title line; it sits before any real lyric in a normal file.
	headerTimestampMS = -1

	// headerGapMS is how far the header is pushed below the first
	// lyric when that lyric starts at or before the placeholder.
	headerGapMS = 1000

	// maxWindowLines caps the display window emitted by Window.
	maxWindowLines = 4
)

// Line is a single lyric anchored to a point in the track.
type Line struct {
	TimestampMS int
	Text        string
}

// Timeline is one fully parsed lyrics payload. Lines is sorted
// ascending by timestamp; index 0 is always the synthetic header line
// carrying the track title, stamped strictly before every other line.
type Timeline struct {
	Title  string
	Artist string
	Lines  []Line
}

var (
	timeTagRe   = regexp.MustCompile(`\[\s*(\d+)\s*:\s*(\d+(?:\.\d+)?)\s*\]`)
	offsetTagRe = regexp.MustCompile(`(?i)\[\s*offset\s*:\s*([+-]?\d+)\s*\]`)
)

// Parse builds a Timeline from a lyrics blob. Each newline-separated
// record may carry any number of [mm:ss.xx] tags; the text after the
// last tag is attached to every stamp on that record. A record
// matching [offset:±n] sets the global offset (last one wins) and
// contributes no line. Records without tags are dropped. The global
// offset is subtracted from every non-header stamp, so a positive
// offset makes lines appear earlier.
func Parse(title string, artist string, body string) *Timeline {
	tl := &Timeline{
		Title:  title,
		Artist: artist,
		Lines:  []Line{{TimestampMS: headerTimestampMS, Text: title}},
	}

	globalOffset := 0

	for _, record := range strings.Split(body, "\n") {
		record = strings.Trim(record, " \t\r")
		if record == "" {
			continue
		}

		if match := offsetTagRe.FindStringSubmatch(record); match != nil {
			value, err := strconv.Atoi(match[1])
			if err == nil {
				globalOffset = value
			}
			continue
		}

		tags := timeTagRe.FindAllStringSubmatchIndex(record, -1)
		if len(tags) == 0 {
			continue
		}

		var stamps []int
		lastEnd := 0

		for _, tag := range tags {
			// the tag span is consumed even when its digits fail to
			// parse, so the lyric text never includes a broken tag
			lastEnd = tag[1]

			minutes, err := strconv.Atoi(record[tag[2]:tag[3]])
			if err != nil {
				continue
			}
			seconds, err := strconv.ParseFloat(record[tag[4]:tag[5]], 64)
			if err != nil {
				continue
			}

			stamps = append(stamps, int((float64(minutes)*60+seconds)*1000))
		}

		text := strings.TrimLeft(record[lastEnd:], " \t")

		for _, stamp := range stamps {
			tl.Lines = append(tl.Lines, Line{TimestampMS: stamp, Text: text})
		}
	}

	if len(tl.Lines) > 1 {
		for i := 1; i < len(tl.Lines); i++ {
			tl.Lines[i].TimestampMS -= globalOffset
		}

		rest := tl.Lines[1:]
		sort.SliceStable(rest, func(a, b int) bool {
			return rest[a].TimestampMS < rest[b].TimestampMS
		})

		// keep the header strictly before the first real lyric
		if tl.Lines[1].TimestampMS <= tl.Lines[0].TimestampMS {
			tl.Lines[0].TimestampMS = tl.Lines[1].TimestampMS - headerGapMS
		}
	}

	return tl
}

// Window returns the lines to display at currentMS: up to two lines
// before the first line stamped at or after currentMS, that line, and
// up to two after, capped at four entries in timeline order. Past the
// last stamp the window is empty. Window never mutates the Timeline.
func (t *Timeline) Window(currentMS int) []Line {
	if t == nil || len(t.Lines) == 0 {
		return nil
	}

	for i := range t.Lines {
		if t.Lines[i].TimestampMS < currentMS {
			continue
		}

		start := 0
		if i > 1 {
			start = i - 2
		}
		end := i + 2
		if end > len(t.Lines)-1 {
			end = len(t.Lines) - 1
		}

		window := make([]Line, 0, maxWindowLines)
		for j := start; j <= end && len(window) < maxWindowLines; j++ {
			window = append(window, t.Lines[j])
		}
		return window
	}

	return nil
}

// Duration returns the timestamp of the last line, or 0 for a
// timeline with no real lyrics.
func (t *Timeline) Duration() int {
	if t == nil || len(t.Lines) < 2 {
		return 0
	}
	return t.Lines[len(t.Lines)-1].TimestampMS
}

// Empty reports whether the timeline holds no real lyric lines.
func (t *Timeline) Empty() bool {
	return t == nil || len(t.Lines) < 2
}
