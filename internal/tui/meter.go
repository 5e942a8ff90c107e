// Package tui renders a terminal level/band meter on top of the analyzer's
// query API. It is a consumer of published analysis state only; nothing in
// here touches the audio thread.
package tui

import (
	"fmt"
	"strings"
	"time"

	"audioviz/internal/analyzer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	meterWidth   = 40
	tickInterval = 33 * time.Millisecond // ~30 Hz display refresh
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065"))

	peakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// keyMap defines the meter's key bindings.
type keyMap struct {
	Quit          key.Binding
	SensitivityUp key.Binding
	SensitivityDn key.Binding
	SmoothingUp   key.Binding
	SmoothingDn   key.Binding
	GateToggle    key.Binding
}

var defaultKeys = keyMap{
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c")),
	SensitivityUp: key.NewBinding(key.WithKeys("+", "=")),
	SensitivityDn: key.NewBinding(key.WithKeys("-")),
	SmoothingUp:   key.NewBinding(key.WithKeys("]")),
	SmoothingDn:   key.NewBinding(key.WithKeys("[")),
	GateToggle:    key.NewBinding(key.WithKeys("g")),
}

type tickMsg time.Time

// Engine is the control surface the meter needs from the capture engine.
type Engine interface {
	Analyzer() *analyzer.Analyzer
	EnableGate()
	DisableGate()
	GateEnabled() bool
}

// MeterModel is the Bubble Tea model for the live analysis meter.
type MeterModel struct {
	engine Engine
	keys   keyMap

	// Band query parameters.
	bands      int
	bandLoPass int
	bandHiPass int

	// Last polled state.
	rms        float64
	peak       float64
	bandLevels []float64
}

// NewMeterModel builds a meter over the given engine's analyzer.
func NewMeterModel(engine Engine, bands, loPass, hiPass int) MeterModel {
	return MeterModel{
		engine:     engine,
		keys:       defaultKeys,
		bands:      bands,
		bandLoPass: loPass,
		bandHiPass: hiPass,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the poll loop.
func (m MeterModel) Init() tea.Cmd {
	return tick()
}

// Update handles input and poll ticks.
func (m MeterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		an := m.engine.Analyzer()
		m.rms = an.RMSLevel()
		m.peak = an.PeakLevel()
		m.bandLevels = an.FrequencyBands(m.bands, m.bandLoPass, m.bandHiPass)
		return m, tick()

	case tea.KeyMsg:
		an := m.engine.Analyzer()
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.SensitivityUp):
			an.SetSensitivity(an.Sensitivity() + 0.1)
		case key.Matches(msg, m.keys.SensitivityDn):
			an.SetSensitivity(an.Sensitivity() - 0.1)
		case key.Matches(msg, m.keys.SmoothingUp):
			an.SetSmoothingTimeConstant(an.SmoothingTimeConstant() + 0.05)
		case key.Matches(msg, m.keys.SmoothingDn):
			an.SetSmoothingTimeConstant(an.SmoothingTimeConstant() - 0.05)
		case key.Matches(msg, m.keys.GateToggle):
			// The engine owns gate state; it may have been enabled at
			// construction or over another control surface.
			if m.engine.GateEnabled() {
				m.engine.DisableGate()
			} else {
				m.engine.EnableGate()
			}
		}
	}
	return m, nil
}

// View renders the meter.
func (m MeterModel) View() string {
	an := m.engine.Analyzer()

	var b strings.Builder
	b.WriteString(titleStyle.Render("audioviz meter"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("RMS  "))
	b.WriteString(barStyle.Render(renderBar(m.rms, meterWidth)))
	b.WriteString(fmt.Sprintf(" %4.2f\n", m.rms))

	b.WriteString(labelStyle.Render("Peak "))
	b.WriteString(peakStyle.Render(renderBar(m.peak, meterWidth)))
	b.WriteString(fmt.Sprintf(" %4.2f\n\n", m.peak))

	for i, level := range m.bandLevels {
		b.WriteString(labelStyle.Render(fmt.Sprintf("B%-3d ", i)))
		b.WriteString(barStyle.Render(renderBar(level, meterWidth)))
		b.WriteString("\n")
	}

	gate := "off"
	if m.engine.GateEnabled() {
		gate = "on"
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"sens %.1f • smooth %.2f • gate %s\n+/-: sensitivity • [/]: smoothing • g: gate • q: quit",
		an.Sensitivity(), an.SmoothingTimeConstant(), gate)))
	return b.String()
}

// renderBar draws a fixed-width bar for a level in [0,1].
func renderBar(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
