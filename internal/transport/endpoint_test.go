package transport

import "testing"

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		verify  func(t *testing.T, ep *Endpoint)
	}{
		{
			name:  "unix serial device",
			input: "/dev/ttyUSB0",
			verify: func(t *testing.T, ep *Endpoint) {
				if ep.Kind != EndpointSerial {
					t.Errorf("kind = %q, want serial", ep.Kind)
				}
				if ep.Device != "/dev/ttyUSB0" {
					t.Errorf("device = %q, want /dev/ttyUSB0", ep.Device)
				}
			},
		},
		{
			name:  "windows COM port",
			input: "COM3",
			verify: func(t *testing.T, ep *Endpoint) {
				if ep.Kind != EndpointSerial {
					t.Errorf("kind = %q, want serial", ep.Kind)
				}
			},
		},
		{
			name:  "socket scheme",
			input: "socket://192.168.1.50:84",
			verify: func(t *testing.T, ep *Endpoint) {
				if ep.Kind != EndpointSocket {
					t.Errorf("kind = %q, want socket", ep.Kind)
				}
				if ep.Address() != "192.168.1.50:84" {
					t.Errorf("address = %q, want 192.168.1.50:84", ep.Address())
				}
			},
		},
		{
			name:  "bare host and port",
			input: "mp60.local:8400",
			verify: func(t *testing.T, ep *Endpoint) {
				if ep.Kind != EndpointSocket {
					t.Errorf("kind = %q, want socket", ep.Kind)
				}
				if ep.Port != 8400 {
					t.Errorf("port = %d, want 8400", ep.Port)
				}
			},
		},
		{
			name:  "bare IP defaults to port 84",
			input: "192.168.1.50",
			verify: func(t *testing.T, ep *Endpoint) {
				if ep.Kind != EndpointSocket {
					t.Errorf("kind = %q, want socket", ep.Kind)
				}
				if ep.Port != 84 {
					t.Errorf("port = %d, want 84", ep.Port)
				}
			},
		},
		{
			name:    "empty endpoint",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unknown scheme",
			input:   "http://192.168.1.50",
			wantErr: true,
		},
		{
			name:    "invalid port",
			input:   "socket://192.168.1.50:notaport",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := ParseEndpoint(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseEndpoint(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.verify != nil {
				tt.verify(t, ep)
			}
		})
	}
}

func TestEndpointString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"serial passthrough", "/dev/ttyUSB0", "/dev/ttyUSB0"},
		{"socket canonicalized", "192.168.1.50", "socket://192.168.1.50:84"},
		{"socket scheme preserved", "socket://10.0.0.2:84", "socket://10.0.0.2:84"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := ParseEndpoint(tt.input)
			if err != nil {
				t.Fatalf("ParseEndpoint(%q) error = %v", tt.input, err)
			}
			if got := ep.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
