package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/doeshing/symcheck-go/internal/app"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The returned cleanup releases whatever
// the executed command opened and must run even when it failed.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error) {
	deps := &commands.Deps{Options: app.Options{Verbose: opts.Verbose}}

	root := &cobra.Command{
		Use:   "symcheck",
		Short: "symcheck - educational symptom analysis",
		Long: "symcheck analyzes reported symptoms with an AI provider, falls back to a " +
			"rule-based analyzer when the provider is unavailable, and keeps a local history.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	root.PersistentFlags().StringVar(&deps.Options.ConfigPath, "config", "", "Config file (default ~/.symcheck/config.yaml or $SYMCHECK_CONFIG)")
	root.PersistentFlags().BoolVarP(&deps.Options.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(newAnalyzeCommand(deps))
	root.AddCommand(commands.NewServeCommand(deps))
	root.AddCommand(commands.NewHistoryCommand(deps))
	root.AddCommand(commands.NewConfigCommand(deps))
	root.AddCommand(commands.NewDoctorCommand(deps))
	root.AddCommand(commands.NewVersionCommand())
	return root, deps.Close
}

func newAnalyzeCommand(deps *commands.Deps) *cobra.Command {
	var (
		age      string
		gender   string
		duration string
		severity string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze [symptoms]",
		Short: "Analyze a symptom description once and record it in history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms := strings.TrimSpace(strings.Join(args, " "))
			if n := len([]rune(symptoms)); n < domain.MinSymptomsLength || n > domain.MaxSymptomsLength {
				return fmt.Errorf("symptoms must be %d-%d characters, got %d",
					domain.MinSymptomsLength, domain.MaxSymptomsLength, n)
			}

			container, err := deps.Container(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			query := domain.SymptomQuery{
				Symptoms: symptoms,
				Age:      domain.Text(age),
				Gender:   domain.Text(gender),
				Duration: domain.Text(duration),
				Severity: domain.Text(severity),
			}

			spinner := NewSpinner(cmd.ErrOrStderr())
			if container.Selection.Mode == domain.ModeProvider && isatty.IsTerminal(os.Stderr.Fd()) {
				spinner.Start()
			}
			outcome := container.AnalysisService.Analyze(ctx, query)
			spinner.Stop()

			RenderOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&age, "age", "", "Patient age")
	cmd.Flags().StringVar(&gender, "gender", "", "Patient gender")
	cmd.Flags().StringVar(&duration, "duration", "", "How long the symptoms have lasted")
	cmd.Flags().StringVar(&severity, "severity", "", "Symptom severity (mild, moderate, severe)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall request timeout")

	return cmd
}
