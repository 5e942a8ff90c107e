package tui

import (
	"strings"
	"testing"

	"audioviz/internal/analyzer"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeEngine stands in for the capture engine so gate interaction can be
// exercised without PortAudio.
type fakeEngine struct {
	an     *analyzer.Analyzer
	gateOn bool
}

func (f *fakeEngine) Analyzer() *analyzer.Analyzer { return f.an }
func (f *fakeEngine) EnableGate()                  { f.gateOn = true }
func (f *fakeEngine) DisableGate()                 { f.gateOn = false }
func (f *fakeEngine) GateEnabled() bool            { return f.gateOn }

func TestMeterShowsEngineGateState(t *testing.T) {
	t.Parallel()

	// A gate enabled before the meter exists must show as on immediately.
	engine := &fakeEngine{an: analyzer.New(analyzer.ModeWaveform), gateOn: true}
	m := NewMeterModel(engine, 5, 100, 600)

	if !strings.Contains(m.View(), "gate on") {
		t.Error("meter must report the engine's pre-enabled gate as on")
	}
}

func TestMeterGateToggleTracksEngine(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{an: analyzer.New(analyzer.ModeWaveform), gateOn: true}
	m := NewMeterModel(engine, 5, 100, 600)

	press := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")}

	// First press on an already-enabled gate turns it off, not on again.
	next, _ := m.Update(press)
	m = next.(MeterModel)
	if engine.gateOn {
		t.Fatal("toggling a pre-enabled gate must disable it")
	}
	if !strings.Contains(m.View(), "gate off") {
		t.Error("meter must report the gate as off after the toggle")
	}

	next, _ = m.Update(press)
	m = next.(MeterModel)
	if !engine.gateOn {
		t.Fatal("second toggle must re-enable the gate")
	}
	if !strings.Contains(m.View(), "gate on") {
		t.Error("meter must report the gate as on after the second toggle")
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		level  float64
		width  int
		filled int
	}{
		{0, 10, 0},
		{0.5, 10, 5},
		{1, 10, 10},
		{-0.3, 10, 0},  // Clamped below
		{1.7, 10, 10},  // Clamped above
		{0.25, 40, 10},
	}
	for _, tt := range tests {
		bar := renderBar(tt.level, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("renderBar(%g, %d): filled = %d, want %d", tt.level, tt.width, got, tt.filled)
		}
		if runeLen := len([]rune(bar)); runeLen != tt.width {
			t.Errorf("renderBar(%g, %d): width = %d, want %d", tt.level, tt.width, runeLen, tt.width)
		}
	}
}
