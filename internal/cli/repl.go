// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/neerai/neerai-tui/internal/config"
	"github.com/neerai/neerai-tui/internal/prompt"
	"github.com/neerai/neerai-tui/internal/session"
	"github.com/neerai/neerai-tui/internal/storage"
	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// =============================================================================
// REPL
// =============================================================================

// REPL drives a plain-terminal chat loop over the session. All
// conversation state lives in the session; the REPL handles input,
// slash commands, and output rendering.
type REPL struct {
	session *session.Session
	store   *storage.ConversationStore // nil when history is disabled
	cfg     *config.Config
	theme   *styles.Theme
	out     io.Writer

	// Suggestions from the last reply. Typing their number sends
	// them as the next question.
	suggestions []string

	// LoggedOut is set when the loop ended via /logout; main re-runs
	// the login gate instead of exiting.
	LoggedOut bool
}

// NewREPL creates the REPL. The store may be nil.
func NewREPL(sess *session.Session, store *storage.ConversationStore, cfg *config.Config) *REPL {
	return &REPL{
		session: sess,
		store:   store,
		cfg:     cfg,
		theme:   styles.NewTheme(),
		out:     os.Stdout,
	}
}

// Run executes the chat loop until /quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, r.theme.HeaderTitle.Render("💧 NeerAI")+"  "+
		r.theme.HeaderSubtitle.Render("India's groundwater, in your language"))
	fmt.Fprintln(r.out, r.theme.ShortcutDesc.Render("Type /help for commands."))
	fmt.Fprintln(r.out)

	// Initialization failure is absorbed into the log as a failure
	// notice; the loop stays up so the user can /quit or retry with
	// /new after fixing the config.
	_ = r.session.Initialize()
	r.printBotReply(r.session.Conversation().Last())

	in := newInputLine()
	defer in.close()

	for {
		line, err := in.readInput("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		done, err := r.Handle(ctx, line)
		if err != nil {
			fmt.Fprintln(r.out, r.theme.ErrorMessage.Render(err.Error()))
		}
		if done {
			return nil
		}
	}
}

// Handle processes one line of input. It returns true when the loop
// should exit.
func (r *REPL) Handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	if strings.HasPrefix(line, "/") {
		return r.handleCommand(ctx, line)
	}

	// A bare number picks the matching suggestion from the last
	// reply.
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(r.suggestions) {
		line = r.suggestions[n-1]
		fmt.Fprintln(r.out, r.theme.ShortcutDesc.Render("→ "+line))
	}

	return false, r.ask(ctx, line)
}

func (r *REPL) handleCommand(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case "/quit", "/q", "/exit":
		r.saveQuietly()
		return true, nil

	case "/logout":
		r.saveQuietly()
		r.LoggedOut = true
		return true, nil

	case "/help", "/h":
		r.printHelp()
		return false, nil

	case "/lang", "/language":
		if arg == "" {
			r.printLanguages()
			return false, nil
		}
		lang, ok := prompt.Match(arg)
		if !ok {
			return false, fmt.Errorf("unknown language %q, try /lang to list them", arg)
		}
		r.saveQuietly()
		if err := r.session.ChangeLanguage(lang); err != nil {
			return false, err
		}
		r.suggestions = nil
		fmt.Fprintln(r.out, r.theme.ShortcutDesc.Render("Language changed to "+lang.Name))
		r.printBotReply(r.session.Conversation().Last())
		return false, nil

	case "/new", "/clear":
		r.saveQuietly()
		if err := r.session.Reset(); err != nil {
			return false, err
		}
		r.suggestions = nil
		r.printBotReply(r.session.Conversation().Last())
		return false, nil

	case "/states":
		r.printStates()
		return false, nil

	case "/state":
		if arg == "" {
			return false, errors.New("usage: /state <name>, e.g. /state Punjab")
		}
		if !prompt.IsState(arg) {
			return false, fmt.Errorf("unknown state %q, try /states", arg)
		}
		return false, r.askState(ctx, arg)

	case "/history":
		return false, r.printHistory()

	case "/resume":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return false, errors.New("usage: /resume <number>, see /history")
		}
		return false, r.resume(n - 1)

	default:
		return false, fmt.Errorf("unknown command %s, try /help", cmd)
	}
}

// ask sends a question and renders the reply.
func (r *REPL) ask(ctx context.Context, text string) error {
	fmt.Fprintln(r.out, r.theme.ThinkingText.Render("thinking..."))

	reply, err := r.session.Send(ctx, text)
	if err != nil {
		// The session already logged an error reply; show it.
		r.printBotReply(r.session.Conversation().Last())
		return nil
	}

	r.printBotReply(reply)
	r.saveQuietly()
	return nil
}

func (r *REPL) askState(ctx context.Context, state string) error {
	fmt.Fprintln(r.out, r.theme.ThinkingText.Render("thinking..."))

	reply, err := r.session.SendAboutState(ctx, state)
	if err != nil {
		r.printBotReply(r.session.Conversation().Last())
		return nil
	}

	r.printBotReply(reply)
	r.saveQuietly()
	return nil
}

// resume loads the nth most recent saved conversation.
func (r *REPL) resume(index int) error {
	if r.store == nil {
		return errors.New("history is disabled in the config")
	}

	conv, err := r.store.LoadByIndex(index)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errors.New("no such conversation, see /history")
		}
		return err
	}

	r.saveQuietly()
	if err := r.session.Resume(conv); err != nil {
		return err
	}
	r.suggestions = nil

	fmt.Fprintln(r.out, r.theme.ShortcutDesc.Render("Resumed conversation."))
	for _, msg := range r.session.Messages() {
		r.printMessage(msg)
	}
	return nil
}

// saveQuietly persists the conversation, ignoring failures. Losing a
// history write should never interrupt the chat.
func (r *REPL) saveQuietly() {
	if r.store == nil {
		return
	}
	conv := r.session.Conversation()
	if conv == nil || conv.Len() <= 1 {
		// Just the welcome message, nothing worth saving.
		return
	}
	_ = r.store.Save(conv)
}
