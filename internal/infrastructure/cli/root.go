package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command for the developer console.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	var (
		configPath string
		seedFile   string
		notReady   bool
	)

	root := &cobra.Command{
		Use:   "ssconsole",
		Short: "Drive the skyrim-search-se console pipeline from a terminal",
		Long: "ssconsole feeds each line of standard input through the same interceptor the\n" +
			"game plugin installs. Lines the plugin declines are echoed as [host] lines.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), consoleOptions{
				ConfigPath: configPath,
				SeedFile:   seedFile,
				Verbose:    opts.Verbose,
				NotReady:   notReady,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default skyrim_search_se.yaml beside the binary)")
	root.Flags().StringVar(&seedFile, "seed", "", "SQL script to run after the schema is created")
	root.Flags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable verbose logging")
	root.Flags().BoolVar(&notReady, "console-not-ready", false, "Simulate a host whose console is not created yet")

	root.AddCommand(newDoctorCommand(&configPath))

	root.SetContext(ctx)
	return root, nil
}
