package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/domain"
)

var errDoctorFailed = errors.New("diagnostics found errors")

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := env.Container(cmd.Context())
			if err != nil {
				return err
			}
			report, err := container.DoctorService.Run(cmd.Context())

			// Display report even if there were errors
			Console(cmd).Renderer.Health(report)

			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if report.Worst() == domain.HealthError {
				return errDoctorFailed
			}
			return nil
		},
	}
}
