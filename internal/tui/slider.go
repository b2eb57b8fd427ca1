package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/vitaminmoo/lsbeacon/internal/logscale"
)

// Slider renders a duration on a logarithmic track. The progress bar is only
// used for drawing; the value lives in the engine.
type Slider struct {
	scale logscale.Scale
	bar   progress.Model
}

// NewSlider creates a slider over [min, max] milliseconds.
func NewSlider(scale logscale.Scale) Slider {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	return Slider{scale: scale, bar: bar}
}

// SetWidth resizes the track.
func (s *Slider) SetWidth(w int) {
	s.bar.Width = w
}

// Step returns the value delta positions away from d.
func (s Slider) Step(d time.Duration, delta float64) int {
	return s.scale.Step(int(d.Milliseconds()), delta)
}

// View renders the track at d followed by its value.
func (s Slider) View(d time.Duration) string {
	ms := int(d.Milliseconds())
	return s.bar.ViewAs(s.scale.Position(ms)/logscale.Steps) + " " + formatMs(ms)
}

// formatMs shows short durations in ms and long ones in seconds.
func formatMs(ms int) string {
	if ms < 1000 {
		return fmt.Sprintf("%d ms", ms)
	}
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}
