// Command inviter-respond answers one invitation from the terminal.
// It takes the response link a recipient received and walks them
// through the yes/no answer. No account needed.
//
//	inviter-respond Xy7kP2mQ
//	inviter-respond https://api.example.com/respond/Xy7kP2mQ
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"inviter/internal/api"
	"inviter/internal/config"
	"inviter/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "inviter-respond:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.APIBaseURL, "base URL of the Inviter API")
	logOutput := flag.String("log-output", "", "append debug logs to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: inviter-respond <link-id or response URL>")
	}

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
	model := ui.NewRespondModel(client, linkID(flag.Arg(0)), log)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// linkID accepts either a bare link id or the full response URL and
// returns the id.
func linkID(arg string) string {
	arg = strings.TrimRight(arg, "/")
	if i := strings.LastIndex(arg, "/"); i >= 0 {
		return arg[i+1:]
	}
	return arg
}
