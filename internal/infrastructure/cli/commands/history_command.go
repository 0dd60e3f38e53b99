package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(env *Env) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect executed commands",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(env),
		newHistoryClearCommand(env),
		newHistoryExportCommand(env),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(env *Env) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent executions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd, env)
			if err != nil {
				return err
			}
			records, err := store.Records(limit, search)
			if err != nil {
				return fmt.Errorf("failed to retrieve history records: %w", err)
			}
			listHistoryEntries(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVar(&search, "search", "", "Only show commands containing this text")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded executions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd, env)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd, env)
			if err != nil {
				return err
			}
			exporter, ok := store.(interface{ ExportJSON(string) error })
			if !ok {
				return errors.New("export requires the sqlite history backend")
			}
			if err := exporter.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			return nil
		},
	}
}

func historyStore(cmd *cobra.Command, env *Env) (ports.HistoryRepository, error) {
	container, err := env.Container(cmd.Context())
	if err != nil {
		return nil, err
	}
	if container.HistoryStore == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return container.HistoryStore, nil
}

// listHistoryEntries prints one line per attempt
func listHistoryEntries(out io.Writer, records []domain.ExecutionAttempt) {
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s | %-11s | %-7s | %6s | %s\n",
			rec.StartedAt.Local().Format(domain.TimestampFormat),
			rec.Mode,
			outcomeLabel(rec),
			(time.Duration(rec.DurationMS) * time.Millisecond).String(),
			rec.Command)
	}
}

func outcomeLabel(rec domain.ExecutionAttempt) string {
	switch {
	case !rec.Completed:
		return "running"
	case rec.Success == nil:
		return "sent"
	case *rec.Success:
		return "ok"
	default:
		return fmt.Sprintf("exit %d", rec.ExitCode)
	}
}
