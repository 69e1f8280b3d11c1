// Command inviter is the terminal client for the Inviter service:
// sign in, create invitations, track who answered.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"inviter/internal/api"
	"inviter/internal/config"
	"inviter/internal/contacts"
	"inviter/internal/models"
	"inviter/internal/session"
	"inviter/internal/ui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "inviter:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.APIBaseURL, "base URL of the Inviter API")
	dataDir := flag.String("data-dir", cfg.DataDir, "directory for session and contact data")
	logOutput := flag.String("log-output", "", "append debug logs to this file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("inviter", version)
		return nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	// The UI owns the screen, so logs go to a file or nowhere.
	log := zerolog.Nop()
	if *logOutput != "" {
		f, err := os.OpenFile(*logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Logger()
	}

	client := api.New(*apiURL, cfg.RequestTimeout, log)

	sessions, err := session.Open(*dataDir)
	if err != nil {
		return err
	}
	defer sessions.Close()

	book, err := contacts.Open(filepath.Join(*dataDir, "contacts.json"))
	if err != nil {
		return err
	}

	var saved *models.Credentials
	if creds, err := sessions.Load(); err == nil {
		if session.TokenExpired(creds.AccessToken, time.Now()) {
			log.Info().Msg("stored token expired, starting signed out")
			_ = sessions.Clear()
		} else {
			saved = &creds
		}
	}

	app := ui.NewApp(client, sessions, book, log, saved)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
