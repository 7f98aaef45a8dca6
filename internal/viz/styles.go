package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kitesim/internal/params"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// BoundsBar draws where a control value sits between its bounds, with a
// marker at zero when zero is inside them.
func BoundsBar(s params.Scalar, width int) string {
	if width < 3 || s.Max <= s.Min {
		return strings.Repeat("─", max(width, 0))
	}
	pos := func(v float64) int {
		i := int((v - s.Min) / (s.Max - s.Min) * float64(width-1))
		return min(max(i, 0), width-1)
	}

	cells := []rune(strings.Repeat("─", width))
	if s.Min < 0 && s.Max > 0 {
		cells[pos(0)] = '┼'
	}
	cells[pos(s.Value)] = '●'

	frac := (s.Value - s.Min) / (s.Max - s.Min)
	bar := "[" + string(cells) + "]"
	switch {
	case frac <= 0.05 || frac >= 0.95:
		return SparkLow.Render(bar)
	case frac <= 0.25 || frac >= 0.75:
		return SparkMid.Render(bar)
	}
	return SparkHigh.Render(bar)
}

// SparklineChart renders a mini sparkline of the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
