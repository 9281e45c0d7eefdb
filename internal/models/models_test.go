package models

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		wantErr bool
		verify  func(t *testing.T, cfg *Config)
	}{
		{
			name:    "mp50",
			modelID: "mp50",
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Name != "MP-50" {
					t.Errorf("name = %q, want MP-50", cfg.Name)
				}
				if cfg.MaxVolume != 200 {
					t.Errorf("max volume = %d, want 200", cfg.MaxVolume)
				}
				if cfg.SupportsDTSDialog {
					t.Error("MP-50 should not support DTS Dialog Control")
				}
			},
		},
		{
			name:    "mp60",
			modelID: "mp60",
			verify: func(t *testing.T, cfg *Config) {
				if cfg.MaxVolume != 240 {
					t.Errorf("max volume = %d, want 240", cfg.MaxVolume)
				}
				if !cfg.SupportsDTSDialog {
					t.Error("MP-60 should support DTS Dialog Control")
				}
				if cfg.Serial.BaudRate != 115200 {
					t.Errorf("baud rate = %d, want 115200", cfg.Serial.BaudRate)
				}
			},
		},
		{
			name:    "unknown model",
			modelID: "mp90",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Lookup(tt.modelID)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.verify != nil {
				tt.verify(t, cfg)
			}
		})
	}
}

func TestDBConversionRoundTrip(t *testing.T) {
	// Every representable 0.1 dB value must survive the round trip
	for v := -999; v <= 240; v++ {
		if got := DBToProtocol(ProtocolToDB(v)); got != v {
			t.Fatalf("round trip failed: %d -> %.1f -> %d", v, ProtocolToDB(v), got)
		}
	}
}

func TestDBToProtocol(t *testing.T) {
	tests := []struct {
		name string
		db   float64
		want int
	}{
		{"negative", -45.5, -455},
		{"zero", 0.0, 0},
		{"positive", 20.0, 200},
		{"rounds half up", 1.25, 13},
		{"minimum", -99.9, -999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DBToProtocol(tt.db); got != tt.want {
				t.Errorf("DBToProtocol(%.2f) = %d, want %d", tt.db, got, tt.want)
			}
		})
	}
}

func TestClampVolume(t *testing.T) {
	cfg, err := Lookup("mp50")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"in range", -350, -350},
		{"below minimum", -1500, -999},
		{"above maximum", 500, 200},
		{"at maximum", 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.ClampVolume(tt.value); got != tt.want {
				t.Errorf("ClampVolume(%d) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	ids := Supported()
	if len(ids) != 2 {
		t.Fatalf("Supported() returned %d models, want 2", len(ids))
	}
	if ids[0] != "mp50" || ids[1] != "mp60" {
		t.Errorf("Supported() = %v, want [mp50 mp60]", ids)
	}
}

func TestAudioInputName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "HDMI"},
		{12, "USB"},
		{24, "Audio Return Channel"},
		{99, "Input 99"},
	}
	for _, tt := range tests {
		if got := AudioInputName(tt.index); got != tt.want {
			t.Errorf("AudioInputName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}
