package track

import "fmt"

// Info identifies the track a player is currently on.
type Info struct {
	Title      string
	Artist     string
	Album      string
	DurationMS int
	TrackID    string
}

func (t *Info) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != "" && t.Artist != ""
}

// IsSameTrack compares by player track id when both sides carry one,
// otherwise by title and artist.
func (t *Info) IsSameTrack(other *Info) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.TrackID != "" && other.TrackID != "" {
		return t.TrackID == other.TrackID
	}
	return t.Title == other.Title && t.Artist == other.Artist
}

func (t *Info) String() string {
	if t == nil {
		return "(no track)"
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}
