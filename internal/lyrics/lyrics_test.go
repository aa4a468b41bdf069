package lyrics

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"two   spaces", "two spaces"},
		{"", ""},
		{"already clean", "already clean"},
	}

	for _, tc := range cases {
		if got := normalizeString(tc.in); got != tc.want {
			t.Fatalf("normalizeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripVersionInfo(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Song (Remastered 2011)", "Song"},
		{"Song [Live]", "Song"},
		{"Song (feat. X) [Deluxe]", "Song"},
		{"Plain Song", "Plain Song"},
	}

	for _, tc := range cases {
		if got := stripVersionInfo(tc.in); got != tc.want {
			t.Fatalf("stripVersionInfo(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToTitleCase(t *testing.T) {
	if got := toTitleCase("surf CURSE"); got != "Surf Curse" {
		t.Fatalf("toTitleCase() = %q, want %q", got, "Surf Curse")
	}
}

func TestIsTimeoutError(t *testing.T) {
	if !isTimeoutError(context.DeadlineExceeded) {
		t.Fatal("context.DeadlineExceeded should classify as timeout")
	}
	if !isTimeoutError(errors.New("dial tcp: i/o timeout")) {
		t.Fatal("i/o timeout should classify as timeout")
	}
	if isTimeoutError(errors.New("status 404: lyrics not found")) {
		t.Fatal("404 should not classify as timeout")
	}
	if isTimeoutError(nil) {
		t.Fatal("nil error should not classify as timeout")
	}
}

func TestFetchRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	if _, err := Fetch(ctx, "http://example.invalid", nil); err == nil {
		t.Fatal("expected error for nil track")
	}
	if _, err := Fetch(ctx, "http://example.invalid", &TrackParams{Title: "x"}); err == nil {
		t.Fatal("expected error for missing artist")
	}
	if _, err := Fetch(ctx, "", &TrackParams{Title: "x", Artist: "y"}); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
