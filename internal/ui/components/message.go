// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/parse"
	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single conversation message as a styled
// bubble. User messages sit on the right in blue, bot messages on the
// left in teal with rich text formatting and an optional inline chart.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowChart     bool
	ChartHeight   int
	theme         *styles.Theme
}

// NewMessageBubble creates a message bubble with sensible defaults.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowChart:     true,
		ChartHeight:   10,
		theme:         theme,
	}
}

// SetWidth sets the available render width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}
	if b.Message.Sender == model.SenderUser {
		return b.renderUserBubble()
	}
	return b.renderBotBubble()
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Text
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)
	header := b.renderHeader()

	leftMargin := maxInt(b.Width-lipgloss.Width(bubble)-2, 0)
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		margin.Render(header),
		margin.Render(bubble),
	)
}

// ==========================================================================
// BOT BUBBLE - Teal tones, left-aligned, rich text plus chart
// ==========================================================================

func (b *MessageBubble) renderBotBubble() string {
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	content := RenderRichText(b.Message.Text, b.theme)
	if content == "" {
		content = "..."
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)
	bubble := b.theme.BotBubble.Width(contentWidth).Render(content)
	header := b.renderHeader()

	parts := []string{header, bubble}

	if b.ShowChart && b.Message.HasChart() {
		chart := NewChart(b.Message.Chart, b.theme)
		chart.Width = minInt(b.Width-4, 76)
		chart.Height = b.ChartHeight
		if view := chart.View(); view != "" {
			parts = append(parts, view)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader builds the "sender · time" line above a bubble.
func (b *MessageBubble) renderHeader() string {
	label := b.theme.SenderLabel.Render(b.Message.Sender.DisplayName())
	if !b.ShowTimestamp {
		return label
	}
	ts := b.theme.Timestamp.Render(b.Message.Timestamp.Format(time.Kitchen))
	return label + " " + ts
}

// =============================================================================
// RICH TEXT RENDERING
// =============================================================================

// RenderRichText converts bot reply markup into styled terminal text.
// Bold spans use **double asterisks**, inline code uses `backticks`,
// and lines starting with "* " become bulleted list items.
func RenderRichText(text string, theme *styles.Theme) string {
	blocks := parse.Fragments(text)
	if len(blocks) == 0 {
		return ""
	}

	var out []string
	for _, block := range blocks {
		switch block.Kind {
		case parse.BlockList:
			for _, item := range block.Items {
				out = append(out, theme.BulletMark.Render("•")+" "+renderSpans(item, theme))
			}
		default:
			out = append(out, renderSpans(block.Spans, theme))
		}
	}
	return strings.Join(out, "\n")
}

func renderSpans(frags []parse.Fragment, theme *styles.Theme) string {
	var sb strings.Builder
	for _, frag := range frags {
		switch frag.Kind {
		case parse.FragmentBold:
			sb.WriteString(theme.BoldText.Render(frag.Text))
		case parse.FragmentCode:
			sb.WriteString(theme.CodeText.Render(frag.Text))
		default:
			sb.WriteString(frag.Text)
		}
	}
	return sb.String()
}
