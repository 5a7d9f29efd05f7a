// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"reflect"
	"testing"
)

// =============================================================================
// SPAN TESTS
// =============================================================================

func TestSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Fragment
	}{
		{
			"plain only",
			"just text",
			[]Fragment{{FragmentPlain, "just text"}},
		},
		{
			"bold run",
			"a **bold** word",
			[]Fragment{{FragmentPlain, "a "}, {FragmentBold, "bold"}, {FragmentPlain, " word"}},
		},
		{
			"code run",
			"unit is `mbgl` here",
			[]Fragment{{FragmentPlain, "unit is "}, {FragmentCode, "mbgl"}, {FragmentPlain, " here"}},
		},
		{
			"mixed runs",
			"**Freshwater:** stable at `14.1`",
			[]Fragment{{FragmentBold, "Freshwater:"}, {FragmentPlain, " stable at "}, {FragmentCode, "14.1"}},
		},
		{
			"unterminated bold stays plain",
			"a **broken",
			[]Fragment{{FragmentPlain, "a **broken"}},
		},
		{
			"empty",
			"",
			nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Spans(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Spans(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

// =============================================================================
// BLOCK TESTS
// =============================================================================

func TestFragmentsParagraphOnly(t *testing.T) {
	blocks := Fragments("one line\nanother line")
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	if blocks[0].Kind != BlockParagraph {
		t.Errorf("Kind = %v, want BlockParagraph", blocks[0].Kind)
	}
}

func TestFragmentsListDetection(t *testing.T) {
	text := "Status summary:\n* **Punjab**: declining\n* Haryana: `critical`\nTrailing note."
	blocks := Fragments(text)

	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3 (para, list, para)", len(blocks))
	}

	if blocks[0].Kind != BlockParagraph {
		t.Errorf("blocks[0].Kind = %v, want paragraph", blocks[0].Kind)
	}

	list := blocks[1]
	if list.Kind != BlockList {
		t.Fatalf("blocks[1].Kind = %v, want list", list.Kind)
	}
	if len(list.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(list.Items))
	}
	if list.Items[0][0].Kind != FragmentBold || list.Items[0][0].Text != "Punjab" {
		t.Errorf("Items[0][0] = %+v, want bold Punjab", list.Items[0][0])
	}
	if list.Items[1][1].Kind != FragmentCode || list.Items[1][1].Text != "critical" {
		t.Errorf("Items[1][1] = %+v, want code critical", list.Items[1][1])
	}

	if blocks[2].Kind != BlockParagraph {
		t.Errorf("blocks[2].Kind = %v, want paragraph", blocks[2].Kind)
	}
}

func TestFragmentsIndentedBullets(t *testing.T) {
	blocks := Fragments("  * first\n  * second")
	if len(blocks) != 1 || blocks[0].Kind != BlockList {
		t.Fatalf("blocks = %+v, want single list", blocks)
	}
	if len(blocks[0].Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(blocks[0].Items))
	}
}

func TestFragmentsEmpty(t *testing.T) {
	if got := Fragments(""); got != nil {
		t.Errorf("Fragments(\"\") = %+v, want nil", got)
	}
	if got := Fragments("\n\n"); len(got) != 0 {
		t.Errorf("Fragments(blank) = %+v, want no blocks", got)
	}
}

func TestFragmentsIdempotentOnPlain(t *testing.T) {
	// A paragraph of plain fragments re-joined is unchanged by re-splitting.
	in := "plain paragraph with no markup"
	first := Fragments(in)
	if len(first) != 1 || len(first[0].Spans) != 1 {
		t.Fatalf("unexpected shape: %+v", first)
	}
	second := Fragments(first[0].Spans[0].Text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-split differs: %+v vs %+v", first, second)
	}
}
