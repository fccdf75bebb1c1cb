package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/symcheck-go/internal/application/query"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/pkg/filesystem"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(deps *Deps) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored symptom analyses",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(deps),
		newHistoryExportCommand(deps),
		newHistoryClearCommand(deps),
		newHistoryStatsCommand(deps),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(deps *Deps) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := deps.Container(cmd.Context())
			if err != nil {
				return err
			}
			return listHistoryEntries(cmd.Context(), cmd.OutOrStdout(), container.QueryService, limit, offset)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (1-100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export history as JSON Lines (stdout when no path is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := deps.Container(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return container.HistoryStore.Export(cmd.Context(), cmd.OutOrStdout())
			}
			return exportHistory(cmd.Context(), cmd.OutOrStdout(), container.HistoryStore, args[0])
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(deps *Deps) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(ErrConfirmClear)
			}
			container, err := deps.Container(cmd.Context())
			if err != nil {
				return err
			}
			if err := container.HistoryStore.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts by source and symptom category",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := deps.Container(cmd.Context())
			if err != nil {
				return err
			}
			return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), container.QueryService)
		},
	}
}

// listHistoryEntries lists one page of history entries
func listHistoryEntries(ctx context.Context, out io.Writer, svc *query.Service, limit, offset int) error {
	if svc == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	page, err := svc.Recent(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}

	if page.Total == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range page.Records {
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			rec.ID,
			describeTime(rec),
			rec.Source,
			preview(rec.Symptoms, previewWidth))
	}
	fmt.Fprintf(out, "Showing %d-%d of %s\n", page.Offset+1, page.Offset+len(page.Records), humanize.Comma(int64(page.Total)))

	return nil
}

// exportHistory writes history to a JSONL file
func exportHistory(ctx context.Context, out io.Writer, store interface {
	Export(context.Context, io.Writer) error
}, path string) error {
	path = filesystem.ExpandPath(path)
	err := filesystem.WriteFileAtomic(path, domain.DataFilePermissions, func(w io.Writer) error {
		return store.Export(ctx, w)
	})
	if err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		fmt.Fprintf(out, "Exported history to %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

// showHistoryStats displays counts by source and the most common categories
func showHistoryStats(ctx context.Context, out io.Writer, svc *query.Service) error {
	if svc == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if stats.Total == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	fmt.Fprintf(out, "Entries: %s\n", humanize.Comma(int64(stats.Total)))
	if !stats.Oldest.IsZero() {
		fmt.Fprintf(out, "Oldest: %s\nNewest: %s\n", humanize.Time(stats.Oldest), humanize.Time(stats.Newest))
	}
	fmt.Fprintf(out, "Fallback rate: %.1f%%\n", stats.Fallbacks)

	fmt.Fprintln(out, "By source:")
	for _, c := range stats.BySource {
		fmt.Fprintf(out, "  %s: %s\n", c.Key, humanize.Comma(int64(c.Count)))
	}

	fmt.Fprintln(out, "Top categories:")
	for _, c := range stats.Categories {
		fmt.Fprintf(out, "  %s: %s\n", c.Key, humanize.Comma(int64(c.Count)))
	}

	return nil
}

func describeTime(rec domain.HistoryRecord) string {
	if t := rec.Time(); !t.IsZero() {
		return humanize.Time(t)
	}
	return rec.Timestamp
}

// preview collapses whitespace and truncates to width runes.
func preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
