package components

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"

	"github.com/pywebdev/academy/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + " "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(math.Round(float64(barWidth) * p.Percent))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Render(strings.Repeat("█", filled))

	emptyStr := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("░", empty))

	result += filledStr + emptyStr

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf(" %3d%%", int(math.Round(p.Percent*100))))
	}

	return result
}

const meterFPS = 60

// meterFrameMsg advances a ProgressMeter animation.
type meterFrameMsg struct {
	id int
}

var lastMeterID int

// ProgressMeter is the header progress indicator. The bar eases towards
// its target on a harmonica spring while the label always shows the
// exact numbers.
type ProgressMeter struct {
	id        int
	spring    harmonica.Spring
	pos       float64
	vel       float64
	target    float64
	completed int
	total     int
	percent   int
	Width     int
}

// NewProgressMeter creates a meter at zero.
func NewProgressMeter(width int) ProgressMeter {
	lastMeterID++
	return ProgressMeter{
		id:     lastMeterID,
		spring: harmonica.NewSpring(harmonica.FPS(meterFPS), 8.0, 0.9),
		Width:  width,
	}
}

// Set updates the meter's numbers and starts the animation towards the new
// percentage when it changed.
func (m ProgressMeter) Set(completed, total, percent int) (ProgressMeter, tea.Cmd) {
	m.completed = completed
	m.total = total
	m.percent = percent
	target := float64(percent) / 100
	if target == m.target && !m.Animating() {
		return m, nil
	}
	m.target = target
	return m, m.frame()
}

// Update handles animation frames addressed to this meter.
func (m ProgressMeter) Update(msg tea.Msg) (ProgressMeter, tea.Cmd) {
	f, ok := msg.(meterFrameMsg)
	if !ok || f.id != m.id {
		return m, nil
	}
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
	if !m.Animating() {
		m.pos = m.target
		m.vel = 0
		return m, nil
	}
	return m, m.frame()
}

// Animating reports whether the bar has not yet settled on its target.
func (m ProgressMeter) Animating() bool {
	return math.Abs(m.pos-m.target) > 0.001 || math.Abs(m.vel) > 0.001
}

// Position returns the currently drawn fill fraction.
func (m ProgressMeter) Position() float64 {
	return m.pos
}

// Label returns the exact progress text, e.g. "3/17 lessons".
func (m ProgressMeter) Label() string {
	return fmt.Sprintf("%d/%d lessons", m.completed, m.total)
}

func (m ProgressMeter) frame() tea.Cmd {
	id := m.id
	return tea.Tick(time.Second/meterFPS, func(time.Time) tea.Msg {
		return meterFrameMsg{id: id}
	})
}

// View renders the label, the bar at its animated position and the exact
// percentage.
func (m ProgressMeter) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(m.Label())
	pos := math.Max(0, math.Min(1, m.pos))
	bar := NewProgressBar("", pos, false, m.Width).View()
	pct := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(fmt.Sprintf(" %d%%", m.percent))
	return label + " " + bar + pct
}
