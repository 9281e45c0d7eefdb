package protocol

import (
	"regexp"
	"strings"
)

// EchoMarker prefixes command echo lines at verbosity level 2
const EchoMarker = "#"

// Kind identifies a state-update family
type Kind string

const (
	KindPower                Kind = "power"
	KindPowerZone2           Kind = "power_zone2"
	KindVolume               Kind = "volume"
	KindVolumeZone2          Kind = "volume_zone2"
	KindMute                 Kind = "mute"
	KindMuteZone2            Kind = "mute_zone2"
	KindSource               Kind = "source"
	KindSourceZone2          Kind = "source_zone2"
	KindRoomPerfectPosition  Kind = "roomperfect_position"
	KindRoomPerfectVoicing   Kind = "roomperfect_voicing"
	KindAudioMode            Kind = "audio_mode"
	KindLipsync              Kind = "lipsync"
	KindLoudness             Kind = "loudness"

	// KindAny subscribes to every state update (catch-all)
	KindAny Kind = "any"
)

// Class is the top-level classification of a received line
type Class int

const (
	// ClassEcho is a command echo ("#" prefix); never a valid reply
	ClassEcho Class = iota
	// ClassReply is a plain line destined for a pending command wait
	ClassReply
	// ClassStateUpdate is a line matching a known state-update pattern.
	// It is still a valid reply; the two roles are not exclusive.
	ClassStateUpdate
)

// String returns a human-readable class name
func (c Class) String() string {
	switch c {
	case ClassEcho:
		return "echo"
	case ClassReply:
		return "reply"
	case ClassStateUpdate:
		return "state_update"
	default:
		return "unknown"
	}
}

// StateUpdate is a typed unsolicited update extracted from a line
type StateUpdate struct {
	Kind Kind
	// Raw is the full line the update was extracted from
	Raw string
	// Fields holds the pattern's captured groups in order
	Fields []string
}

// Classified is the result of classifying one line
type Classified struct {
	Class Class
	// Text is the line with any echo marker stripped
	Text string
	// Update is set when Class is ClassStateUpdate
	Update *StateUpdate
}

// statePattern pairs an update kind with its line pattern
type statePattern struct {
	kind    Kind
	pattern *regexp.Regexp
}

// statePatterns is evaluated in order. Zone-specific patterns carry a
// distinguishing token and are listed before their base counterpart so
// a line can never match both.
var statePatterns = []statePattern{
	{KindPowerZone2, regexp.MustCompile(`!POWERZONE2\((\d+)\)`)},
	{KindPower, regexp.MustCompile(`!POWER\((\d+)\)`)},
	{KindVolumeZone2, regexp.MustCompile(`!ZVOL\((-?\d+)\)`)},
	{KindVolume, regexp.MustCompile(`!VOL\((-?\d+)\)`)},
	{KindMuteZone2, regexp.MustCompile(`!ZMUTE(ON|OFF)`)},
	{KindMute, regexp.MustCompile(`!MUTE(ON|OFF)`)},
	{KindSourceZone2, regexp.MustCompile(`!ZSRC\((\d+)\)"([^"]*)"`)},
	{KindSource, regexp.MustCompile(`!SRC\((\d+)\)"([^"]*)"`)},
	{KindRoomPerfectPosition, regexp.MustCompile(`!RPFOC\((\d+)\)"([^"]*)"`)},
	{KindRoomPerfectVoicing, regexp.MustCompile(`!RPVOI\((\d+)\)"([^"]*)"`)},
	{KindAudioMode, regexp.MustCompile(`!AUDMODE\((\d+)\)"([^"]*)"`)},
	{KindLipsync, regexp.MustCompile(`!LIPSYNC\((\d+)\)`)},
	{KindLoudness, regexp.MustCompile(`!LOUDNESS\((\d+)\)`)},
}

// Classify maps a decoded, EOL-stripped line to exactly one variant.
// Classification is total: echo lines are ClassEcho, lines matching a
// state pattern are ClassStateUpdate, and everything else (including
// replies the table does not know) is a plain ClassReply.
func Classify(line string) Classified {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, EchoMarker) {
		return Classified{Class: ClassEcho, Text: strings.TrimPrefix(line, EchoMarker)}
	}

	for _, sp := range statePatterns {
		if m := sp.pattern.FindStringSubmatch(line); m != nil {
			return Classified{
				Class: ClassStateUpdate,
				Text:  line,
				Update: &StateUpdate{
					Kind:   sp.kind,
					Raw:    line,
					Fields: m[1:],
				},
			}
		}
	}

	return Classified{Class: ClassReply, Text: line}
}

// Kinds returns every state-update kind the classifier knows, in
// evaluation order
func Kinds() []Kind {
	kinds := make([]Kind, len(statePatterns))
	for i, sp := range statePatterns {
		kinds[i] = sp.kind
	}
	return kinds
}
