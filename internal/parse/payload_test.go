// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"reflect"
	"testing"

	"github.com/neerai/neerai-tui/internal/model"
)

// =============================================================================
// NO-PAYLOAD REPLIES
// =============================================================================

func TestParseNoFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain text", "Groundwater in Punjab is **declining**."},
		{"empty", ""},
		{"non-json fence", "some code:\n```go\nfmt.Println(1)\n```"},
		{"backticks only", "inline `code` here"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			if got.DisplayText != tc.raw {
				t.Errorf("DisplayText = %q, want raw input unchanged", got.DisplayText)
			}
			if got.Chart != nil {
				t.Error("Chart should be nil without a json fence")
			}
			if got.Suggestions != nil {
				t.Error("Suggestions should be nil without a json fence")
			}
		})
	}
}

func TestParseMalformedPayload(t *testing.T) {
	raw := "Here is the data.\n```json\n{\"chartData\": [}, broken\n```"
	got := Parse(raw)

	// Fail open: the fence stays embedded, no structured fields come back.
	if got.DisplayText != raw {
		t.Errorf("DisplayText = %q, want raw input retained", got.DisplayText)
	}
	if got.Chart != nil || got.Suggestions != nil {
		t.Error("malformed payload must yield no structured fields")
	}
}

// =============================================================================
// WELL-FORMED PAYLOADS
// =============================================================================

func TestParseSingleStateScenario(t *testing.T) {
	raw := "Level is stable.\n```json\n{\"chartData\":[{\"name\":\"2020\",\"level\":14.1},{\"name\":\"2021\",\"level\":14.3}],\"suggestions\":[\"Compare with Kerala\"]}\n```"

	got := Parse(raw)

	if got.DisplayText != "Level is stable." {
		t.Errorf("DisplayText = %q, want %q", got.DisplayText, "Level is stable.")
	}

	if got.Chart == nil {
		t.Fatal("Chart should be present")
	}
	if got.Chart.Kind != model.SeriesSingle {
		t.Errorf("Kind = %v, want SeriesSingle", got.Chart.Kind)
	}
	wantPoints := []model.ChartPoint{
		{Label: "2020", Level: 14.1},
		{Label: "2021", Level: 14.3},
	}
	if !reflect.DeepEqual(got.Chart.Points, wantPoints) {
		t.Errorf("Points = %+v, want %+v", got.Chart.Points, wantPoints)
	}

	if !reflect.DeepEqual(got.Suggestions, []string{"Compare with Kerala"}) {
		t.Errorf("Suggestions = %v", got.Suggestions)
	}
}

func TestParseComparisonScenario(t *testing.T) {
	raw := "Punjab draws deeper than Haryana.\n```json\n{\"chartData\":[{\"name\":\"2022\",\"Punjab\":15.2,\"Haryana\":18.1},{\"name\":\"2023\",\"Punjab\":15.5,\"Haryana\":18.3}],\"comparisonStates\":[\"Punjab\",\"Haryana\"],\"suggestions\":[\"Add Rajasthan\"]}\n```"

	got := Parse(raw)

	if got.DisplayText != "Punjab draws deeper than Haryana." {
		t.Errorf("DisplayText = %q", got.DisplayText)
	}

	if got.Chart == nil {
		t.Fatal("Chart should be present")
	}
	if got.Chart.Kind != model.SeriesComparison {
		t.Errorf("Kind = %v, want SeriesComparison", got.Chart.Kind)
	}
	if !reflect.DeepEqual(got.Chart.States, []string{"Punjab", "Haryana"}) {
		t.Errorf("States = %v", got.Chart.States)
	}

	if len(got.Chart.Points) != 2 {
		t.Fatalf("len(Points) = %d, want 2", len(got.Chart.Points))
	}
	p0 := got.Chart.Points[0]
	if p0.Label != "2022" || p0.Values["Punjab"] != 15.2 || p0.Values["Haryana"] != 18.1 {
		t.Errorf("Points[0] = %+v", p0)
	}
	p1 := got.Chart.Points[1]
	if p1.Label != "2023" || p1.Values["Punjab"] != 15.5 || p1.Values["Haryana"] != 18.3 {
		t.Errorf("Points[1] = %+v", p1)
	}
}

func TestParseFenceInMiddle(t *testing.T) {
	raw := "Before.\n```json\n{\"suggestions\":[\"a\",\"b\"]}\n```\nAfter."
	got := Parse(raw)

	want := "Before.\n\nAfter."
	if got.DisplayText != want {
		t.Errorf("DisplayText = %q, want %q", got.DisplayText, want)
	}
	if !reflect.DeepEqual(got.Suggestions, []string{"a", "b"}) {
		t.Errorf("Suggestions = %v", got.Suggestions)
	}
	if got.Chart != nil {
		t.Error("Chart should be nil when payload has no chartData")
	}
}

// =============================================================================
// SHAPE EDGE CASES
// =============================================================================

func TestParseEmptyVsAbsentChart(t *testing.T) {
	// Empty array: an empty chart, not "no chart".
	got := Parse("Text.\n```json\n{\"chartData\":[]}\n```")
	if got.Chart == nil {
		t.Fatal("empty chartData array should yield a non-nil empty series")
	}
	if len(got.Chart.Points) != 0 {
		t.Errorf("len(Points) = %d, want 0", len(got.Chart.Points))
	}

	// Non-array: dropped, not coerced.
	got = Parse("Text.\n```json\n{\"chartData\":{\"name\":\"2020\"}}\n```")
	if got.Chart != nil {
		t.Error("non-array chartData should be dropped")
	}
	if got.DisplayText != "Text." {
		t.Errorf("DisplayText = %q; a dropped field should not block fence stripping", got.DisplayText)
	}
}

func TestParseNonStringSuggestions(t *testing.T) {
	got := Parse("Text.\n```json\n{\"suggestions\":[\"ok\",42]}\n```")
	if got.Suggestions != nil {
		t.Errorf("mixed-type suggestions should be dropped, got %v", got.Suggestions)
	}
}

func TestParseNumericLabel(t *testing.T) {
	got := Parse("Text.\n```json\n{\"chartData\":[{\"name\":2020,\"level\":14.1}]}\n```")
	if got.Chart == nil || len(got.Chart.Points) != 1 {
		t.Fatal("chart should be present with one point")
	}
	if got.Chart.Points[0].Label != "2020" {
		t.Errorf("Label = %q, want %q", got.Chart.Points[0].Label, "2020")
	}
}

func TestParseFirstFenceWins(t *testing.T) {
	raw := "A.\n```json\n{\"suggestions\":[\"one\"]}\n```\nB.\n```json\n{\"suggestions\":[\"two\"]}\n```"
	got := Parse(raw)

	if !reflect.DeepEqual(got.Suggestions, []string{"one"}) {
		t.Errorf("Suggestions = %v, want payload of first fence", got.Suggestions)
	}
	// The second fence survives in the display text.
	if !fenceRe.MatchString(got.DisplayText) {
		t.Error("second fence should remain in DisplayText")
	}
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestParseIdempotent(t *testing.T) {
	raw := "Level is stable.\n```json\n{\"chartData\":[{\"name\":\"2020\",\"level\":14.1}]}\n```"

	first := Parse(raw)
	second := Parse(first.DisplayText)

	if second.DisplayText != first.DisplayText {
		t.Errorf("re-parse changed text: %q -> %q", first.DisplayText, second.DisplayText)
	}
	if second.Chart != nil || second.Suggestions != nil {
		t.Error("re-parse of stripped text should yield no structured fields")
	}
}
