// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/prompt"
	"github.com/neerai/neerai-tui/internal/ui/components"
	"github.com/neerai/neerai-tui/internal/util"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders bot replies with terminal formatting.
// Falls back to plain text when initialization fails.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// OUTPUT
// =============================================================================

// printBotReply renders one bot message: text, chart, and numbered
// suggestions.
func (r *REPL) printBotReply(msg *model.Message) {
	if msg == nil || msg.Sender != model.SenderBot {
		return
	}

	fmt.Fprint(r.out, renderMarkdown(msg.Text))

	if r.cfg.UI.ShowCharts && msg.HasChart() {
		chart := components.NewChart(msg.Chart, r.theme)
		chart.Height = r.cfg.UI.ChartHeight
		if view := chart.View(); view != "" {
			fmt.Fprintln(r.out, view)
		}
	}

	r.suggestions = nil
	if r.cfg.UI.ShowSuggestions && len(msg.Suggestions) > 0 {
		r.suggestions = append([]string(nil), msg.Suggestions...)
		fmt.Fprintln(r.out)
		for i, s := range r.suggestions {
			fmt.Fprintf(r.out, "  %s %s\n",
				r.theme.ShortcutKey.Render(fmt.Sprintf("[%d]", i+1)),
				r.theme.ShortcutDesc.Render(s))
		}
	}
	fmt.Fprintln(r.out)
}

// printMessage renders either side of a resumed transcript.
func (r *REPL) printMessage(msg *model.Message) {
	if msg == nil {
		return
	}
	if msg.Sender == model.SenderUser {
		fmt.Fprintln(r.out, r.theme.SenderLabel.Render("you> ")+msg.Text)
		return
	}
	r.printBotReply(msg)
}

func (r *REPL) printHelp() {
	rows := [][2]string{
		{"/lang [name]", "list languages, or switch (e.g. /lang Tamil)"},
		{"/new", "start a fresh conversation"},
		{"/states", "list states and union territories"},
		{"/state <name>", "ask for a state's groundwater summary"},
		{"/history", "list saved conversations"},
		{"/resume <n>", "resume a saved conversation"},
		{"/logout", "log out and return to the login prompt"},
		{"/quit", "exit"},
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %s  %s\n",
			r.theme.ShortcutKey.Render(util.PadWidth(row[0], 14)),
			r.theme.ShortcutDesc.Render(row[1]))
	}
	fmt.Fprintln(r.out, r.theme.ShortcutDesc.Render("  After a reply, type a suggestion's number to ask it."))
}

func (r *REPL) printLanguages() {
	current := r.session.Language()
	for _, lang := range prompt.Supported {
		marker := "  "
		if lang.EnglishName == current.EnglishName {
			marker = "▸ "
		}
		label := lang.Name
		if lang.EnglishName != lang.Name {
			label += "  (" + lang.EnglishName + ")"
		}
		fmt.Fprintln(r.out, marker+label)
	}
}

func (r *REPL) printStates() {
	// Three columns keeps all 36 on one screen.
	const cols = 3
	width := 0
	for _, s := range prompt.States {
		if len(s) > width {
			width = len(s)
		}
	}
	var row []string
	for i, s := range prompt.States {
		row = append(row, util.PadWidth(s, width))
		if len(row) == cols || i == len(prompt.States)-1 {
			fmt.Fprintln(r.out, "  "+strings.Join(row, "  "))
			row = row[:0]
		}
	}
}

func (r *REPL) printHistory() error {
	if r.store == nil {
		return fmt.Errorf("history is disabled in the config")
	}
	metas, err := r.store.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Fprintln(r.out, r.theme.ShortcutDesc.Render("No saved conversations yet."))
		return nil
	}
	for i, meta := range metas {
		fmt.Fprintf(r.out, "  %s %s  %s\n",
			r.theme.ShortcutKey.Render(fmt.Sprintf("[%d]", i+1)),
			meta.Summary,
			r.theme.Timestamp.Render(meta.UpdatedAt.Format("Jan 2 15:04")))
	}
	return nil
}
