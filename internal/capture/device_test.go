package capture

import "testing"

func TestParseDeviceName(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantType DeviceType
		wantErr  bool
	}{
		{"Built-in Microphone (input)", "Built-in Microphone", DeviceInput, false},
		{"Display 1 (output)", "Display 1", DeviceOutput, false},
		{"  MacBook Pro Speakers (OUTPUT)  ", "MacBook Pro Speakers", DeviceOutput, false},
		{"no marker here", "", 0, true},
		{"", "", 0, true},
	}

	for _, c := range cases {
		got, err := ParseDeviceName(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDeviceName(%q): expected error, got none", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDeviceName(%q): unexpected error: %v", c.in, err)
		}
		if got.Name != c.wantName || got.Type != c.wantType {
			t.Errorf("ParseDeviceName(%q) = %+v, want {%s %v}", c.in, got, c.wantName, c.wantType)
		}
	}
}

func TestAudioDeviceString(t *testing.T) {
	d := AudioDevice{Name: "Webcam Mic", Type: DeviceInput}
	if got, want := d.String(), "Webcam Mic (input)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestShouldIncludeOutputDevice(t *testing.T) {
	cases := map[string]bool{
		"MacBook Pro Speakers": false,
		"John's AirPods Pro":   false,
		"Display 1":            true,
		"BlackHole 2ch":        true,
	}
	for name, want := range cases {
		if got := shouldIncludeOutputDevice(name); got != want {
			t.Errorf("shouldIncludeOutputDevice(%q) = %v, want %v", name, got, want)
		}
	}
}
