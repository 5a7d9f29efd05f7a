// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/neerai/neerai-tui/internal/model"
)

// =============================================================================
// REPLY TYPE
// =============================================================================

// Reply is the interpreted form of one raw assistant reply.
type Reply struct {
	// DisplayText is the human-readable text with the payload fence removed
	// (or the raw text unchanged when no payload was extracted).
	DisplayText string

	// Chart is the typed chart payload. Nil when the reply carried no
	// chartData; non-nil with zero points when it carried an empty array.
	Chart *model.ChartSeries

	// Suggestions holds the follow-up queries the assistant proposed.
	Suggestions []string
}

// payload mirrors the JSON object the assistant embeds. Fields stay raw so
// that presence, shape and content can be checked independently.
type payload struct {
	ChartData        json.RawMessage `json:"chartData"`
	ComparisonStates json.RawMessage `json:"comparisonStates"`
	Suggestions      json.RawMessage `json:"suggestions"`
}

// fenceRe matches the first ```json fence and captures its body.
var fenceRe = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// =============================================================================
// PARSE
// =============================================================================

// Parse extracts the optional structured payload from a raw assistant reply.
//
// The first ```json fence is located and parsed. On success the fence is
// stripped from the display text and the payload fields are lifted into
// typed values; on any failure the reply is returned as plain text with the
// fence (if any) retained. Numeric chart values are trusted as delivered:
// the system instruction requires numbers, and this parser does not repair
// qualitative strings the model emits in violation of it.
func Parse(raw string) Reply {
	m := fenceRe.FindStringSubmatchIndex(raw)
	if m == nil {
		return Reply{DisplayText: raw}
	}

	body := raw[m[2]:m[3]]

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		// Fail open: the fence stays in the text, the answer still reaches
		// the user.
		slog.Debug("discarding malformed reply payload", "error", err)
		return Reply{DisplayText: raw}
	}

	display := strings.TrimSpace(raw[:m[0]] + raw[m[1]:])

	return Reply{
		DisplayText: display,
		Chart:       chartFromPayload(p.ChartData, stringSlice(p.ComparisonStates)),
		Suggestions: stringSlice(p.Suggestions),
	}
}

// =============================================================================
// PAYLOAD LIFTING
// =============================================================================

// chartFromPayload converts the raw chartData array into a typed series.
// A missing or non-array chartData yields nil, an empty array yields an
// empty series; the distinction is deliberate.
func chartFromPayload(raw json.RawMessage, states []string) *model.ChartSeries {
	if raw == nil {
		return nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		slog.Debug("chartData is not an array, dropping", "error", err)
		return nil
	}

	points := make([]model.ChartPoint, 0, len(rows))

	if len(states) > 0 {
		for _, row := range rows {
			p := model.ChartPoint{
				Label:  labelOf(row),
				Values: make(map[string]float64, len(states)),
			}
			for _, state := range states {
				if v, ok := row[state].(float64); ok {
					p.Values[state] = v
				}
			}
			points = append(points, p)
		}
		return model.NewComparisonSeries(states, points)
	}

	for _, row := range rows {
		p := model.ChartPoint{Label: labelOf(row)}
		if v, ok := row["level"].(float64); ok {
			p.Level = v
		}
		points = append(points, p)
	}
	return model.NewSingleSeries(points)
}

// labelOf extracts the x-axis label from a chart row. The assistant emits
// years as strings, but a bare number is accepted as well.
func labelOf(row map[string]any) string {
	switch v := row["name"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// stringSlice lifts a raw JSON value into a []string, returning nil unless
// the value is an array whose elements are all strings.
func stringSlice(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.Debug("expected string array in payload, dropping", "error", err)
		return nil
	}
	return out
}
