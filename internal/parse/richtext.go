// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"regexp"
	"strings"
)

// =============================================================================
// FRAGMENT TYPES
// =============================================================================

// FragmentKind classifies one styled run of text.
type FragmentKind int

const (
	FragmentPlain FragmentKind = iota
	FragmentBold
	FragmentCode
)

// String returns the string representation of the fragment kind.
func (k FragmentKind) String() string {
	switch k {
	case FragmentPlain:
		return "plain"
	case FragmentBold:
		return "bold"
	case FragmentCode:
		return "code"
	default:
		return "unknown"
	}
}

// Fragment is one styled run within a span of text.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// BlockKind classifies a block of display text.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockList
)

// Block is either a paragraph (one span sequence) or a bullet list (one span
// sequence per item).
type Block struct {
	Kind  BlockKind
	Spans []Fragment   // set for BlockParagraph
	Items [][]Fragment // set for BlockList
}

// =============================================================================
// BLOCK SPLITTING
// =============================================================================

// bulletRe matches a bullet line: optional indent, "*", at least one space.
var bulletRe = regexp.MustCompile(`^\s*\*\s+`)

// Fragments splits markdown-flavored display text into typed blocks.
// Consecutive lines beginning with "*" form one list block; every other run
// of lines forms a paragraph block. Within any span, **bold** and `code`
// delimiters produce styled runs. The transform is stateless and idempotent
// on its own plain output.
func Fragments(text string) []Block {
	if text == "" {
		return nil
	}

	var blocks []Block
	var para []string
	var items []string

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.Join(para, "\n")
		para = nil
		if strings.TrimSpace(joined) == "" {
			return
		}
		blocks = append(blocks, Block{Kind: BlockParagraph, Spans: Spans(joined)})
	}
	flushList := func() {
		if len(items) == 0 {
			return
		}
		block := Block{Kind: BlockList, Items: make([][]Fragment, 0, len(items))}
		for _, item := range items {
			block.Items = append(block.Items, Spans(item))
		}
		items = nil
		blocks = append(blocks, block)
	}

	for _, line := range strings.Split(text, "\n") {
		if loc := bulletRe.FindStringIndex(line); loc != nil {
			flushPara()
			items = append(items, strings.TrimSpace(line[loc[1]:]))
			continue
		}
		flushList()
		para = append(para, line)
	}
	flushPara()
	flushList()

	return blocks
}

// =============================================================================
// SPAN SPLITTING
// =============================================================================

// spanRe matches one **bold** or `code` delimited run.
var spanRe = regexp.MustCompile("\\*\\*.*?\\*\\*|`.*?`")

// Spans splits a single span of text into styled runs. Unterminated
// delimiters are left as plain text.
func Spans(text string) []Fragment {
	if text == "" {
		return nil
	}

	var frags []Fragment
	last := 0
	for _, loc := range spanRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			frags = append(frags, Fragment{Kind: FragmentPlain, Text: text[last:loc[0]]})
		}
		match := text[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(match, "**"):
			frags = append(frags, Fragment{Kind: FragmentBold, Text: match[2 : len(match)-2]})
		default:
			frags = append(frags, Fragment{Kind: FragmentCode, Text: match[1 : len(match)-1]})
		}
		last = loc[1]
	}
	if last < len(text) {
		frags = append(frags, Fragment{Kind: FragmentPlain, Text: text[last:]})
	}

	return frags
}
