package monitor

import (
	"strconv"

	"github.com/nkarlsen/lyngctl/internal/models"
	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// State is the dashboard's view of the processor, built entirely from
// pushed status updates. Fields without a received value yet hold
// their zero value and render as unknown.
type State struct {
	PowerKnown bool
	Power      bool

	VolumeKnown bool
	VolumeDB    float64

	MuteKnown bool
	Muted     bool

	SourceIndex int
	SourceName  string
	SourceKnown bool

	PositionName string
	VoicingName  string
	AudioMode    string

	LipsyncKnown bool
	LipsyncMS    int

	Zone2PowerKnown bool
	Zone2Power      bool
	Zone2VolKnown   bool
	Zone2VolDB      float64
	Zone2Muted      bool
	Zone2SourceName string
}

// Apply folds one status update into the state. Unknown kinds and
// malformed fields are ignored; the stream is advisory.
func (s *State) Apply(u protocol.StateUpdate) {
	switch u.Kind {
	case protocol.KindPower:
		if v, ok := field(u, 0); ok {
			s.Power = v == "1"
			s.PowerKnown = true
		}
	case protocol.KindVolume:
		if n, ok := intField(u, 0); ok {
			s.VolumeDB = models.ProtocolToDB(n)
			s.VolumeKnown = true
		}
	case protocol.KindMute:
		if v, ok := field(u, 0); ok {
			s.Muted = v == "ON"
			s.MuteKnown = true
		}
	case protocol.KindSource:
		if n, ok := intField(u, 0); ok {
			s.SourceIndex = n
			s.SourceName, _ = field(u, 1)
			s.SourceKnown = true
		}
	case protocol.KindRoomPerfectPosition:
		s.PositionName, _ = field(u, 1)
	case protocol.KindRoomPerfectVoicing:
		s.VoicingName, _ = field(u, 1)
	case protocol.KindAudioMode:
		s.AudioMode, _ = field(u, 1)
	case protocol.KindLipsync:
		if n, ok := intField(u, 0); ok {
			s.LipsyncMS = n
			s.LipsyncKnown = true
		}
	case protocol.KindPowerZone2:
		if v, ok := field(u, 0); ok {
			s.Zone2Power = v == "1"
			s.Zone2PowerKnown = true
		}
	case protocol.KindVolumeZone2:
		if n, ok := intField(u, 0); ok {
			s.Zone2VolDB = models.ProtocolToDB(n)
			s.Zone2VolKnown = true
		}
	case protocol.KindMuteZone2:
		if v, ok := field(u, 0); ok {
			s.Zone2Muted = v == "ON"
		}
	case protocol.KindSourceZone2:
		s.Zone2SourceName, _ = field(u, 1)
	}
}

func field(u protocol.StateUpdate, i int) (string, bool) {
	if i >= len(u.Fields) {
		return "", false
	}
	return u.Fields[i], true
}

func intField(u protocol.StateUpdate, i int) (int, bool) {
	v, ok := field(u, i)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
