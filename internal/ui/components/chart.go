// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/ui/styles"
	"github.com/neerai/neerai-tui/internal/util"
)

// =============================================================================
// GROUNDWATER CHART COMPONENT
// =============================================================================

// seriesMarkers are the plot glyphs, one per comparison state.
var seriesMarkers = []rune{'●', '○', '◆', '▲', '■', '◇'}

// Chart renders a model.ChartSeries as a small terminal scatter plot.
// The vertical axis carries the groundwater level in metres below
// ground level, the horizontal axis the point labels. Comparison
// series get one marker and color per state, plus a legend.
type Chart struct {
	Series *model.ChartSeries
	Width  int
	Height int
	theme  *styles.Theme
}

// NewChart creates a chart with default dimensions.
func NewChart(series *model.ChartSeries, theme *styles.Theme) *Chart {
	return &Chart{
		Series: series,
		Width:  72,
		Height: 10,
		theme:  theme,
	}
}

// View renders the chart, or the empty string if there is nothing to
// plot.
func (c *Chart) View() string {
	if c.Series == nil || c.Series.IsEmpty() {
		return ""
	}

	height := c.Height
	if height < 3 {
		height = 3
	}

	min, max := c.Series.LevelRange()
	if max == min {
		// A flat series still needs a non-zero span to place rows.
		max = min + 1
	}

	topLabel := fmt.Sprintf("%.1f", max)
	bottomLabel := fmt.Sprintf("%.1f", min)
	axisWidth := maxInt(runewidth.StringWidth(topLabel), runewidth.StringWidth(bottomLabel))

	plotWidth := c.Width - axisWidth - 3
	if plotWidth < 8 {
		plotWidth = 8
	}

	grid, owner := c.plot(plotWidth, height, min, max)

	var lines []string
	lines = append(lines, c.theme.ChartTitle.Render("Groundwater level (mbgl)"))

	for row := 0; row < height; row++ {
		label := strings.Repeat(" ", axisWidth)
		switch row {
		case 0:
			label = util.PadWidth(topLabel, axisWidth)
		case height - 1:
			label = util.PadWidth(bottomLabel, axisWidth)
		}

		var sb strings.Builder
		sb.WriteString(c.theme.ChartAxis.Render(label + " │"))
		for col := 0; col < plotWidth; col++ {
			ch := grid[row][col]
			if ch == ' ' {
				sb.WriteRune(' ')
				continue
			}
			style := c.theme.ChartAxis
			if idx := owner[row][col]; idx >= 0 {
				style = style.Foreground(styles.SeriesColor(idx))
			}
			sb.WriteString(style.Render(string(ch)))
		}
		lines = append(lines, sb.String())
	}

	axis := strings.Repeat(" ", axisWidth) + " ╰" + strings.Repeat("─", plotWidth)
	lines = append(lines, c.theme.ChartAxis.Render(axis))

	if labels := c.renderPointLabels(axisWidth, plotWidth); labels != "" {
		lines = append(lines, labels)
	}
	if legend := c.renderLegend(); legend != "" {
		lines = append(lines, legend)
	}

	return c.theme.ChartFrame.Render(strings.Join(lines, "\n"))
}

// plot fills a rune grid with series markers. owner tracks which
// series index painted each cell so it can be colored; -1 means the
// single-series marker.
func (c *Chart) plot(width, height int, min, max float64) ([][]rune, [][]int) {
	grid := make([][]rune, height)
	owner := make([][]int, height)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", width))
		owner[row] = make([]int, width)
		for col := range owner[row] {
			owner[row][col] = -1
		}
	}

	points := c.Series.Points
	place := func(i int, value float64, marker rune, series int) {
		col := 0
		if len(points) > 1 {
			col = i * (width - 1) / (len(points) - 1)
		} else {
			col = width / 2
		}
		frac := (value - min) / (max - min)
		row := height - 1 - int(frac*float64(height-1)+0.5)
		if row < 0 {
			row = 0
		}
		if row >= height {
			row = height - 1
		}
		grid[row][col] = marker
		owner[row][col] = series
	}

	if c.Series.Kind == model.SeriesComparison {
		for si, state := range c.Series.States {
			marker := seriesMarkers[si%len(seriesMarkers)]
			for i, pt := range points {
				if v, ok := pt.Values[state]; ok {
					place(i, v, marker, si)
				}
			}
		}
		return grid, owner
	}

	for i, pt := range points {
		place(i, pt.Level, seriesMarkers[0], -1)
	}
	return grid, owner
}

// renderPointLabels shows the first and last point labels beneath the
// axis, which is usually a date range.
func (c *Chart) renderPointLabels(axisWidth, plotWidth int) string {
	points := c.Series.Points
	if len(points) == 0 {
		return ""
	}

	first := points[0].Label
	last := ""
	if len(points) > 1 {
		last = points[len(points)-1].Label
	}

	gap := plotWidth - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		return c.theme.ChartAxis.Render(strings.Repeat(" ", axisWidth+2) + util.TruncateWidth(first, plotWidth))
	}
	line := strings.Repeat(" ", axisWidth+2) + first + strings.Repeat(" ", gap) + last
	return c.theme.ChartAxis.Render(line)
}

// renderLegend maps each comparison state to its marker.
func (c *Chart) renderLegend() string {
	if c.Series.Kind != model.SeriesComparison {
		return ""
	}

	var parts []string
	for i, state := range c.Series.States {
		marker := seriesMarkers[i%len(seriesMarkers)]
		entry := c.theme.ChartLegend.
			Foreground(styles.SeriesColor(i)).
			Render(string(marker) + " " + state)
		parts = append(parts, entry)
	}
	return strings.Join(parts, "  ")
}
