// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SERIES KIND
// =============================================================================

// SeriesKind distinguishes the two chart shapes the assistant produces.
type SeriesKind int

const (
	// SeriesSingle is a single-state trend: each point carries one level.
	SeriesSingle SeriesKind = iota

	// SeriesComparison is a multi-state comparison: each point carries one
	// level per compared state.
	SeriesComparison
)

// String returns the string representation of the series kind.
func (k SeriesKind) String() string {
	switch k {
	case SeriesSingle:
		return "single"
	case SeriesComparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// =============================================================================
// CHART SERIES
// =============================================================================

// ChartSeries holds the structured chart payload of one bot message.
//
// For SeriesSingle, States is empty and each point's Level is set.
// For SeriesComparison, States lists the compared state names in the order
// the assistant named them, and each point's Values maps state name to level.
// Levels are meters below ground level (mbgl).
type ChartSeries struct {
	Kind   SeriesKind   `json:"kind"`
	States []string     `json:"states,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint is one x-axis sample of a chart series, typically a year.
type ChartPoint struct {
	Label  string             `json:"label"`
	Level  float64            `json:"level,omitempty"`
	Values map[string]float64 `json:"values,omitempty"`
}

// NewSingleSeries builds a single-state trend series.
func NewSingleSeries(points []ChartPoint) *ChartSeries {
	return &ChartSeries{Kind: SeriesSingle, Points: points}
}

// NewComparisonSeries builds a multi-state comparison series.
func NewComparisonSeries(states []string, points []ChartPoint) *ChartSeries {
	return &ChartSeries{Kind: SeriesComparison, States: states, Points: points}
}

// IsEmpty reports whether the series has no points.
// An empty series is still a series: the assistant sent chart data, it was
// just empty. Callers that need "no chart at all" check for a nil series.
func (s *ChartSeries) IsEmpty() bool {
	return s == nil || len(s.Points) == 0
}

// LevelRange returns the minimum and maximum level across all points and,
// for comparison series, all states. Returns (0, 0) for an empty series.
func (s *ChartSeries) LevelRange() (min, max float64) {
	if s.IsEmpty() {
		return 0, 0
	}

	first := true
	observe := func(v float64) {
		if first {
			min, max = v, v
			first = false
			return
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	for _, p := range s.Points {
		switch s.Kind {
		case SeriesComparison:
			for _, state := range s.States {
				if v, ok := p.Values[state]; ok {
					observe(v)
				}
			}
		default:
			observe(p.Level)
		}
	}

	if first {
		return 0, 0
	}
	return min, max
}

// ValuesFor returns the ordered level sequence for one state of a comparison
// series, with a parallel presence mask for points missing that state.
func (s *ChartSeries) ValuesFor(state string) (levels []float64, present []bool) {
	if s.IsEmpty() {
		return nil, nil
	}
	levels = make([]float64, len(s.Points))
	present = make([]bool, len(s.Points))
	for i, p := range s.Points {
		if v, ok := p.Values[state]; ok {
			levels[i] = v
			present[i] = true
		}
	}
	return levels, present
}
