package render

import (
	"strings"
	"testing"

	"github.com/opd-ai/go-flightcore/pkg/control"
)

func TestHUDLines(t *testing.T) {
	tests := []struct {
		name string
		hud  control.HUDState
		want []string
	}{
		{
			name: "at rest",
			hud:  control.HUDState{},
			want: []string{"SPD: 000 kts", "ALT: 00000 ft", "THR: 0%", "FLP: 0%", "BRK: OFF", "ENG: OFF"},
		},
		{
			name: "cruise",
			hud: control.HUDState{
				AirspeedMS:    50,
				AltitudeM:     1000,
				ThrustPercent: 0.75,
				FlapCmd:       0.3,
				BrakesOn:      true,
				EngineRunning: true,
			},
			want: []string{"SPD: 097 kts", "ALT: 03281 ft", "THR: 75%", "FLP: 30%", "BRK: ON", "ENG: ON"},
		},
		{
			name: "below sea level",
			hud:  control.HUDState{AltitudeM: -3},
			want: []string{"SPD: 000 kts", "ALT: -00009 ft", "THR: 0%", "FLP: 0%", "BRK: OFF", "ENG: OFF"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := HUDLines(tc.hud)
			if len(lines) != len(tc.want)+len(Legend) {
				t.Fatalf("Expected %d lines, got %d", len(tc.want)+len(Legend), len(lines))
			}
			for i, want := range tc.want {
				if lines[i] != want {
					t.Errorf("line %d: got %q, want %q", i, lines[i], want)
				}
			}
		})
	}
}

func TestFormatHUD_IncludesLegend(t *testing.T) {
	text := FormatHUD(control.HUDState{})
	if !strings.HasPrefix(text, "SPD: 000 kts\n") {
		t.Errorf("unexpected start of HUD: %q", text)
	}
	if !strings.Contains(text, "E:Engine  Space:Throttle") || !strings.Contains(text, "F:Flap  B:Brake") {
		t.Errorf("legend missing from HUD: %q", text)
	}
	if strings.HasSuffix(text, "\n") {
		t.Error("HUD should not end with a newline")
	}
}
