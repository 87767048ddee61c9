package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/skyrim-search-se/internal/application/doctor"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/config"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/host"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/store"
	"github.com/doeshing/skyrim-search-se/internal/pkg/logger"
)

func newDoctorCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, database and platform support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &doctor.Service{
				ConfigProvider: config.NewFileLoader(*configPath),
				OpenDatabase: func(ctx context.Context, settings domain.DatabaseSettings) (doctor.Database, error) {
					db, err := store.Open(ctx, settings)
					if err != nil {
						return nil, err
					}
					return db, nil
				},
				HostProbe: func() error {
					_, err := host.ImageBase()
					return err
				},
				Logger: logger.NewStd(false),
			}
			report, err := svc.Run(cmd.Context())

			// Display report even if there were errors
			displayDoctorReport(cmd.OutOrStdout(), report)

			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			return nil
		},
	}
}

func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
