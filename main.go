// NeerAI TUI - chat about India's groundwater, in your language.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/neerai/neerai-tui/internal/auth"
	"github.com/neerai/neerai-tui/internal/cli"
	"github.com/neerai/neerai-tui/internal/config"
	"github.com/neerai/neerai-tui/internal/genai"
	"github.com/neerai/neerai-tui/internal/prompt"
	"github.com/neerai/neerai-tui/internal/session"
	"github.com/neerai/neerai-tui/internal/storage"
	"github.com/neerai/neerai-tui/internal/ui/chat"
	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		plainFlag    = flag.Bool("plain", false, "use the plain terminal REPL instead of the full-screen UI")
		configFlag   = flag.String("config", "", "path to config file (default ~/.neerai/config.toml)")
		languageFlag = flag.String("language", "", "chat language, native or English name (e.g. Tamil)")
		modelFlag    = flag.String("model", "", "model name (overrides config)")
		versionFlag  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("neerai %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return 0
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}
	if *modelFlag != "" {
		cfg.API.Model = *modelFlag
	}

	levelVar := setupLogging(cfg)

	// Config edits take effect without a restart; currently that
	// means the log level.
	if watcher := watchConfig(*configFlag, levelVar); watcher != nil {
		defer watcher.Close()
	}

	client, err := newClient(cfg)
	if err != nil {
		if errors.Is(err, genai.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "No API key configured.")
			fmt.Fprintln(os.Stderr, "Set NEERAI_API_KEY (or GEMINI_API_KEY), or add it under [api] in the config file.")
			return 1
		}
		fmt.Fprintln(os.Stderr, "client error:", err)
		return 1
	}

	language := pickLanguage(*languageFlag, cfg)

	var store *storage.ConversationStore
	if cfg.History.Enabled {
		path, err := cfg.HistoryPath()
		if err == nil {
			store, err = storage.NewConversationStore(path,
				storage.WithMaxConversations(cfg.History.MaxConversations))
		}
		if err != nil {
			slog.Warn("conversation history unavailable", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	plain := *plainFlag || !term.IsTerminal(int(os.Stdout.Fd()))

	// Logging out returns to the login gate with a fresh session.
	for {
		if cfg.Auth.Enabled {
			if err := login(cfg); err != nil {
				fmt.Fprintln(os.Stderr, "login failed:", err)
				return 1
			}
		}

		sess := session.New(&session.GenaiDialer{Client: client, Model: cfg.API.Model}, language)
		loggedOut, code := runUI(sess, store, cfg, plain)
		sess.Close()

		if code != 0 {
			return code
		}
		if !loggedOut || !cfg.Auth.Enabled {
			return 0
		}
	}
}

// runUI runs one chat session to completion and reports whether the
// user logged out rather than quit.
func runUI(sess *session.Session, store *storage.ConversationStore, cfg *config.Config, plain bool) (loggedOut bool, code int) {
	if plain {
		repl := cli.NewREPL(sess, store, cfg)
		if err := repl.Run(context.Background()); err != nil {
			return false, 1
		}
		return repl.LoggedOut, 0
	}

	model := chat.New(sess, store, cfg, styles.NewTheme())
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return false, 1
	}
	return model.LoggedOut, 0
}

// loadConfig loads and validates the config, from an explicit path or
// the default location. Both loaders apply environment overrides and
// validate.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setupLogging sends slog output to the configured log file. Logging
// to the terminal would corrupt the UI, so on failure logs are
// dropped.
func setupLogging(cfg *config.Config) *slog.LevelVar {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(cfg.Log.Level))

	var w io.Writer = io.Discard
	if path, err := cfg.LogPath(); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			w = f
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})))
	return levelVar
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// watchConfig reloads the log level when the config file changes.
func watchConfig(explicitPath string, levelVar *slog.LevelVar) *config.Watcher {
	path := explicitPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return nil
		}
	}

	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
		levelVar.Set(parseLevel(cfg.Log.Level))
		slog.Info("configuration reloaded", "log_level", cfg.Log.Level)
	})
	if err != nil {
		slog.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := watcher.Watch(); err != nil {
		slog.Warn("config watcher unavailable", "error", err)
		watcher.Close()
		return nil
	}
	return watcher
}

// login gates startup behind the configured authenticator.
func login(cfg *config.Config) error {
	if cfg.Auth.Mode == "federated" {
		return loginFederated(cfg)
	}
	return loginLocal(cfg)
}

// loginFederated admits externally signed-in users whose email is on
// the allow list. The sign-in email stands in for the provider token.
func loginFederated(cfg *config.Config) error {
	authenticator := auth.NewFederated(auth.AllowEmails(cfg.Auth.AllowedEmails))

	reader := bufio.NewReader(os.Stdin)
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Print("Email: ")
		email, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		creds := auth.Credentials{Token: strings.TrimSpace(email)}
		identity, err := authenticator.Login(context.Background(), creds)
		if err == nil {
			slog.Info("user logged in", "username", identity.Username, "role", identity.Role)
			return nil
		}
		fmt.Fprintln(os.Stderr, "email not authorized")
	}
	return errors.New("too many failed attempts")
}

// loginLocal prompts against the local credentials store.
func loginLocal(cfg *config.Config) error {
	credPath, err := cfg.CredentialsPath()
	if err != nil {
		return err
	}
	store, err := auth.OpenStore(credPath)
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		return fmt.Errorf("no users in %s; disable auth or add a user first", credPath)
	}

	authenticator := auth.NewLocal(store,
		auth.WithRequireTOTP(cfg.Auth.RequireTOTP),
		auth.WithAttemptsPerMinute(cfg.Auth.MaxAttemptsPerMinute))

	reader := bufio.NewReader(os.Stdin)
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Print("Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}

		creds := auth.Credentials{
			Username: strings.TrimSpace(username),
			Password: string(password),
		}

		identity, err := authenticator.Login(context.Background(), creds)
		if errors.Is(err, auth.ErrTOTPRequired) {
			fmt.Print("TOTP code: ")
			code, readErr := reader.ReadString('\n')
			if readErr != nil {
				return readErr
			}
			creds.TOTPCode = strings.TrimSpace(code)
			identity, err = authenticator.Login(context.Background(), creds)
		}
		if err == nil {
			slog.Info("user logged in", "username", identity.Username, "role", identity.Role)
			return nil
		}

		fmt.Fprintln(os.Stderr, "invalid credentials")
		if errors.Is(err, auth.ErrThrottled) {
			return err
		}
	}
	return errors.New("too many failed attempts")
}

// newClient builds the model service client from config.
func newClient(cfg *config.Config) (*genai.Client, error) {
	clientCfg := genai.DefaultConfig()
	clientCfg.APIKey = cfg.API.Key
	if cfg.API.BaseURL != "" {
		clientCfg.BaseURL = cfg.API.BaseURL
	}
	if cfg.API.Model != "" {
		clientCfg.Model = cfg.API.Model
	}
	clientCfg.Timeout = cfg.APITimeout()
	if cfg.API.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.API.MaxRetries
	}
	return genai.NewClient(clientCfg)
}

// pickLanguage resolves the chat language: flag first, then config,
// then the default.
func pickLanguage(flagValue string, cfg *config.Config) prompt.Language {
	if flagValue != "" {
		if lang, ok := prompt.Match(flagValue); ok {
			return lang
		}
		fmt.Fprintf(os.Stderr, "unknown language %q, using %s\n", flagValue, prompt.Default().EnglishName)
		return prompt.Default()
	}
	if cfg.Language != "" {
		if lang, ok := prompt.Match(cfg.Language); ok {
			return lang
		}
	}
	return prompt.Default()
}
