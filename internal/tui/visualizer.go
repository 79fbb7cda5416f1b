package tui

import (
	"math"
	"strings"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	maxBars      = 16
	visualHeight = 7
	waveHeight   = 5
	waveStep     = 0.1
)

// renderBars draws levels as vertical bars filling width columns and height
// rows.
func renderBars(levels []float64, width, height int) []string {
	n := min(len(levels), maxBars)
	if n == 0 || height <= 0 {
		return nil
	}
	barWidth := max((width-(n-1))/n, 1)
	step := 1 / float64(height)

	lines := make([]string, height)
	for row := range height {
		var b strings.Builder
		threshold := 1 - float64(row)*step
		for i, level := range levels[:n] {
			b.WriteString(strings.Repeat(string(cell(level, threshold, step)), barWidth))
			if i < n-1 {
				b.WriteByte(' ')
			}
		}
		lines[row] = b.String()
	}
	return lines
}

// cell picks the block for a level in the row whose top is threshold and
// which spans step.
func cell(level, threshold, step float64) rune {
	switch {
	case level >= threshold:
		return blocks[len(blocks)-1]
	case level >= threshold-step:
		idx := int((level - threshold + step) / step * float64(len(blocks)-1))
		return blocks[min(max(idx, 0), len(blocks)-1)]
	default:
		return ' '
	}
}

// renderWave scrolls the loudness history from right to left under a
// slowly travelling sine, one column per frame.
func renderWave(history []float64, phase float64, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	cols := make([]float64, width)
	if len(history) > width {
		history = history[len(history)-width:]
	}
	copy(cols[width-len(history):], history)

	step := 1 / float64(height)
	lines := make([]string, height)
	for row := range height {
		threshold := 1 - float64(row)*step
		var b strings.Builder
		for col, amp := range cols {
			mod := 0.3 + 0.7*(0.5+0.5*math.Sin(phase+float64(col)*0.15))
			b.WriteRune(cell(amp*mod, threshold, step))
		}
		lines[row] = b.String()
	}
	return lines
}

// pushHistory appends v and keeps at most n values.
func pushHistory(history []float64, v float64, n int) []float64 {
	if len(history) >= n {
		history = history[len(history)-n+1:]
	}
	out := make([]float64, 0, n)
	out = append(out, history...)
	return append(out, v)
}

// renderMinimal draws a single line whose length follows the loudness.
func renderMinimal(rms float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(1, rms)) * float64(width)))
	return strings.Repeat("━", filled) + strings.Repeat(" ", width-filled)
}
