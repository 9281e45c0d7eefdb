package monitor

import (
	"strings"
	"testing"

	"github.com/nkarlsen/lyngctl/internal/protocol"
)

func TestStateApply(t *testing.T) {
	tests := []struct {
		name   string
		update protocol.StateUpdate
		verify func(t *testing.T, s State)
	}{
		{
			name:   "power on",
			update: protocol.StateUpdate{Kind: protocol.KindPower, Fields: []string{"1"}},
			verify: func(t *testing.T, s State) {
				if !s.PowerKnown || !s.Power {
					t.Errorf("power = %v known %v", s.Power, s.PowerKnown)
				}
			},
		},
		{
			name:   "power standby",
			update: protocol.StateUpdate{Kind: protocol.KindPower, Fields: []string{"0"}},
			verify: func(t *testing.T, s State) {
				if !s.PowerKnown || s.Power {
					t.Errorf("power = %v known %v", s.Power, s.PowerKnown)
				}
			},
		},
		{
			name:   "volume converts to dB",
			update: protocol.StateUpdate{Kind: protocol.KindVolume, Fields: []string{"-425"}},
			verify: func(t *testing.T, s State) {
				if !s.VolumeKnown || s.VolumeDB != -42.5 {
					t.Errorf("volume = %v known %v", s.VolumeDB, s.VolumeKnown)
				}
			},
		},
		{
			name:   "mute on",
			update: protocol.StateUpdate{Kind: protocol.KindMute, Fields: []string{"ON"}},
			verify: func(t *testing.T, s State) {
				if !s.MuteKnown || !s.Muted {
					t.Errorf("muted = %v known %v", s.Muted, s.MuteKnown)
				}
			},
		},
		{
			name:   "source with name",
			update: protocol.StateUpdate{Kind: protocol.KindSource, Fields: []string{"4", "Blu-ray"}},
			verify: func(t *testing.T, s State) {
				if !s.SourceKnown || s.SourceIndex != 4 || s.SourceName != "Blu-ray" {
					t.Errorf("source = %d %q", s.SourceIndex, s.SourceName)
				}
			},
		},
		{
			name:   "zone 2 volume is separate",
			update: protocol.StateUpdate{Kind: protocol.KindVolumeZone2, Fields: []string{"-510"}},
			verify: func(t *testing.T, s State) {
				if s.VolumeKnown {
					t.Error("zone 2 volume touched the main volume")
				}
				if !s.Zone2VolKnown || s.Zone2VolDB != -51.0 {
					t.Errorf("zone2 volume = %v", s.Zone2VolDB)
				}
			},
		},
		{
			name:   "audio mode name",
			update: protocol.StateUpdate{Kind: protocol.KindAudioMode, Fields: []string{"2", "Dolby Upmixer"}},
			verify: func(t *testing.T, s State) {
				if s.AudioMode != "Dolby Upmixer" {
					t.Errorf("audio mode = %q", s.AudioMode)
				}
			},
		},
		{
			name:   "malformed volume is ignored",
			update: protocol.StateUpdate{Kind: protocol.KindVolume, Fields: []string{"loud"}},
			verify: func(t *testing.T, s State) {
				if s.VolumeKnown {
					t.Error("malformed update set VolumeKnown")
				}
			},
		},
		{
			name:   "missing fields are ignored",
			update: protocol.StateUpdate{Kind: protocol.KindPower},
			verify: func(t *testing.T, s State) {
				if s.PowerKnown {
					t.Error("update without fields set PowerKnown")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			s.Apply(tt.update)
			tt.verify(t, s)
		})
	}
}

func TestStateApplySequence(t *testing.T) {
	var s State
	s.Apply(protocol.StateUpdate{Kind: protocol.KindVolume, Fields: []string{"-300"}})
	s.Apply(protocol.StateUpdate{Kind: protocol.KindMute, Fields: []string{"ON"}})
	s.Apply(protocol.StateUpdate{Kind: protocol.KindMute, Fields: []string{"OFF"}})
	s.Apply(protocol.StateUpdate{Kind: protocol.KindVolume, Fields: []string{"-250"}})

	if s.VolumeDB != -25.0 {
		t.Errorf("volume = %v, want -25.0", s.VolumeDB)
	}
	if s.Muted {
		t.Error("muted = true after OFF")
	}
}

func TestRenderVolume(t *testing.T) {
	if got := renderVolume(State{}); got == "" {
		t.Error("renderVolume(unknown) is empty")
	}

	s := State{VolumeKnown: true, VolumeDB: -30.0, MuteKnown: true, Muted: true}
	if got := renderVolume(s); !strings.Contains(got, "MUTED") {
		t.Errorf("renderVolume(muted) = %q, want MUTED marker", got)
	}
}
