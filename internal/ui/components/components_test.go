// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	t := styles.NewTheme()
	t.SetSize(80, 24)
	return t
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "short text unchanged",
			text:  "hello world",
			width: 40,
			want:  []string{"hello world"},
		},
		{
			name:  "wraps at width",
			text:  "the quick brown fox jumps over",
			width: 15,
			want:  []string{"the quick brown", "fox jumps over"},
		},
		{
			name:  "preserves newlines",
			text:  "one\ntwo",
			width: 40,
			want:  []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Split(wordWrap(tt.text, tt.width), "\n")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderRichText(t *testing.T) {
	theme := testTheme()

	out := RenderRichText("Here is **Punjab** data with `14.1` mbgl:\n* First point\n* Second point", theme)

	for _, want := range []string{"Punjab", "14.1", "First point", "Second point"} {
		if !strings.Contains(out, want) {
			t.Errorf("rich text output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "•") != 2 {
		t.Errorf("expected 2 bullet marks, got %d:\n%s", strings.Count(out, "•"), out)
	}
	if strings.Contains(out, "**") || strings.Contains(out, "`") {
		t.Errorf("markup delimiters leaked into output:\n%s", out)
	}
}

func TestMessageBubbleSenders(t *testing.T) {
	theme := testTheme()

	user := NewMessageBubble(model.NewUserMessage("Tell me about Punjab"), theme)
	if out := user.View(); !strings.Contains(out, "You") || !strings.Contains(out, "Punjab") {
		t.Errorf("user bubble missing label or text:\n%s", out)
	}

	bot := NewMessageBubble(model.NewBotMessage("Punjab's water table is declining."), theme)
	if out := bot.View(); !strings.Contains(out, "NeerAI") || !strings.Contains(out, "declining") {
		t.Errorf("bot bubble missing label or text:\n%s", out)
	}
}

func TestMessageBubbleInlineChart(t *testing.T) {
	theme := testTheme()

	chart := model.NewSingleSeries([]model.ChartPoint{
		{Label: "Jan 2024", Level: 14.1},
		{Label: "Jun 2024", Level: 14.3},
	})
	msg := model.NewBotMessageWithPayload("Levels for Punjab.", chart, nil)

	bubble := NewMessageBubble(msg, theme)
	out := bubble.View()
	if !strings.Contains(out, "mbgl") {
		t.Errorf("bot bubble with chart data should render the chart:\n%s", out)
	}

	bubble.ShowChart = false
	if out := bubble.View(); strings.Contains(out, "mbgl") {
		t.Errorf("chart rendered despite ShowChart=false:\n%s", out)
	}
}

func TestChartSingleSeries(t *testing.T) {
	theme := testTheme()

	series := model.NewSingleSeries([]model.ChartPoint{
		{Label: "Jan 2024", Level: 14.1},
		{Label: "Mar 2024", Level: 14.2},
		{Label: "Jun 2024", Level: 14.3},
	})

	out := NewChart(series, theme).View()

	// Axis carries the level range, max on top.
	for _, want := range []string{"14.3", "14.1", "mbgl", "Jan 2024", "Jun 2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "●") {
		t.Errorf("chart missing plot markers:\n%s", out)
	}
}

func TestChartComparisonLegend(t *testing.T) {
	theme := testTheme()

	series := model.NewComparisonSeries(
		[]string{"Punjab", "Haryana"},
		[]model.ChartPoint{
			{Label: "2023", Values: map[string]float64{"Punjab": 18.2, "Haryana": 12.4}},
			{Label: "2024", Values: map[string]float64{"Punjab": 18.9, "Haryana": 12.1}},
		},
	)

	out := NewChart(series, theme).View()

	for _, want := range []string{"Punjab", "Haryana", "●", "○"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison chart missing %q:\n%s", want, out)
		}
	}
}

func TestChartEmpty(t *testing.T) {
	theme := testTheme()

	if out := NewChart(nil, theme).View(); out != "" {
		t.Errorf("nil series should render nothing, got %q", out)
	}
	if out := NewChart(&model.ChartSeries{}, theme).View(); out != "" {
		t.Errorf("empty series should render nothing, got %q", out)
	}
}

func TestSuggestionChipsNavigation(t *testing.T) {
	theme := testTheme()
	chips := NewSuggestionChips([]string{"Compare with Haryana", "Show 2020 data", "Why is it declining?"}, theme)

	if got := chips.Current(); got != "" {
		t.Errorf("nothing selected initially, got %q", got)
	}

	chips.Next()
	if got := chips.Current(); got != "Compare with Haryana" {
		t.Errorf("Current() = %q after first Next", got)
	}

	chips.Prev()
	if got := chips.Current(); got != "Why is it declining?" {
		t.Errorf("Prev should wrap to last chip, got %q", got)
	}

	chips.Next()
	if got := chips.Current(); got != "Compare with Haryana" {
		t.Errorf("Next should wrap to first chip, got %q", got)
	}

	chips.Clear()
	if chips.View() != "" || chips.Current() != "" {
		t.Error("cleared chips should render nothing")
	}
}

func TestStateListFilter(t *testing.T) {
	theme := testTheme()
	list := NewStateList([]string{"Haryana", "Punjab", "Tamil Nadu"}, theme)

	list.SetFilter("pun")
	visible := list.Visible()
	if len(visible) != 1 || visible[0] != "Punjab" {
		t.Fatalf("Visible() = %v, want [Punjab]", visible)
	}
	if got := list.Current(); got != "Punjab" {
		t.Errorf("Current() = %q, want Punjab", got)
	}

	list.SetFilter("xyz")
	if got := list.Current(); got != "" {
		t.Errorf("Current() = %q with no matches, want empty", got)
	}

	list.SetFilter("")
	list.Next()
	list.Next()
	list.Next() // clamps at the end
	if got := list.Current(); got != "Tamil Nadu" {
		t.Errorf("Current() = %q, want Tamil Nadu", got)
	}
}

func TestStatusBarStates(t *testing.T) {
	theme := testTheme()
	bar := NewStatusBar(theme)
	bar.SetWidth(80)

	bar.Status = StatusReady
	if out := bar.View(); !strings.Contains(out, "Ready") {
		t.Errorf("status bar missing Ready:\n%s", out)
	}

	bar.Status = StatusThinking
	if out := bar.View(); !strings.Contains(out, "Thinking") {
		t.Errorf("status bar missing Thinking:\n%s", out)
	}

	bar.Status = StatusFailed
	bar.Detail = "check your API key"
	out := bar.View()
	if !strings.Contains(out, "Connection failed") || !strings.Contains(out, "API key") {
		t.Errorf("status bar missing failure detail:\n%s", out)
	}
}
