package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hi-z-k/focustime/internal/auth"
	"github.com/hi-z-k/focustime/internal/export"
	"github.com/hi-z-k/focustime/internal/notes"
	"github.com/hi-z-k/focustime/internal/store"
	"github.com/hi-z-k/focustime/internal/timer"
	"github.com/hi-z-k/focustime/internal/tui"
)

const version = "0.1.0"

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "focustime",
		Short:         "focustime — pomodoro timer, task board and study notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default: ~/.config/focustime/focustime.db)")

	rootCmd.AddCommand(
		newSummarizeCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.New(path)
}

func runTUI() error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	session, err := auth.LocalSession(s)
	if err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	eng := timer.New(s)
	app := tui.NewApp(s, session, eng)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func newSummarizeCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize a text file (or stdin) through the AI endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(string(text)) == "" {
				return fmt.Errorf("nothing to summarize")
			}

			if endpoint == "" {
				s, err := openStore()
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				endpoint, _ = s.GetSetting("summarize_endpoint")
				s.Close()
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			summary, err := notes.NewSummarizer(endpoint).Summarize(ctx, string(text))
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), notes.FallbackSummary)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "summarization endpoint (default: stored setting)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer s.Close()

			session, err := auth.LocalSession(s)
			if err != nil {
				return fmt.Errorf("establish session: %w", err)
			}

			records, err := s.ListSessions(session.UserID, store.SessionFilter{})
			if err != nil {
				return err
			}

			if out == "" {
				out = fmt.Sprintf("focustime-export-%s.%s", time.Now().Format("2006-01-02"), format)
			}

			switch format {
			case "csv":
				err = export.ToCSV(records, out)
			case "json":
				err = export.ToJSON(records, out)
			default:
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format (csv|json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
