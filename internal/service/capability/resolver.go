// Package capability derives which chat input modes a restaurant allows.
//
// The policy is monotonic: video implies audio, and audio implies text.
package capability

import "github.com/tableside/concierge/internal/model/restaurant"

// Mode is one chat input mode.
type Mode string

const (
	Text  Mode = "text"
	Audio Mode = "audio"
	Video Mode = "video"
)

// Set is the resolved capability triple.
type Set struct {
	Text  bool
	Audio bool
	Video bool
}

// Resolve applies the policy to profile. A nil profile disables every mode.
func Resolve(profile *restaurant.Profile) Set {
	if profile == nil {
		return Set{}
	}
	video := profile.VideoSupport
	audio := profile.AudioSupport || video
	text := profile.TextSupport || audio
	return Set{Text: text, Audio: audio, Video: video}
}

// Allows reports whether mode is enabled.
func (s Set) Allows(mode Mode) bool {
	switch mode {
	case Text:
		return s.Text
	case Audio:
		return s.Audio
	case Video:
		return s.Video
	default:
		return false
	}
}

// Modes lists the enabled modes from least to most demanding.
func (s Set) Modes() []Mode {
	modes := make([]Mode, 0, 3)
	for _, m := range []Mode{Text, Audio, Video} {
		if s.Allows(m) {
			modes = append(modes, m)
		}
	}
	return modes
}

// Disabled reports whether the chat input is fully inert.
func (s Set) Disabled() bool { return !s.Text }
