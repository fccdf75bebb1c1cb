package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/symcheck-go/internal/application/doctor"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/infrastructure/config"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, provider selection and history storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd.Context(), cmd.OutOrStdout(), deps)
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics. A config that fails to
// build a container is still diagnosed, without the history check.
func runDoctorDiagnostics(ctx context.Context, out io.Writer, deps *Deps) error {
	svc := &doctor.Service{ConfigProvider: deps.Loader(), CredentialEnv: config.CredentialEnvFor}
	if container, err := deps.Container(ctx); err == nil {
		svc = container.DoctorService
	}
	if svc == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report, err := svc.Run(ctx)

	// Display report even if there were errors
	displayDoctorReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}

	return nil
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
