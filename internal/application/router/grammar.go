package router

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/skyrim-search-se/internal/domain"
)

func init() {
	// "ss q select 1" resolves to query while the prefix is unambiguous.
	cobra.EnablePrefixMatching = true
	cobra.EnableCaseInsensitive = true
	// Cobra would otherwise exit the host process when it was launched from Explorer.
	cobra.MousetrapHelpText = ""
}

// newRootCommand builds the console grammar for one invocation. The parsed
// command is handed to emit only after every flag and argument validated.
func newRootCommand(name string, out io.Writer, emit func(domain.ParsedCommand)) *cobra.Command {
	root := &cobra.Command{
		Use:     name,
		Short:   "Search Skyrim records from the in-game console",
		Version: domain.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return domain.New(domain.KindParse, "a subcommand is required")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(domain.ProgramName + " {{.Version}}\n")
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(newQueryCommand(emit))
	return root
}

func newQueryCommand(emit func(domain.ParsedCommand)) *cobra.Command {
	var intAsDecimal bool

	cmd := &cobra.Command{
		Use:   "query <sql>...",
		Short: "execute raw query",
		Long: "Execute raw SQLite SQL against the search database. Every argument after\n" +
			"the flags is joined with single spaces into one statement.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emit(domain.QueryCommand{
				SQL:          strings.Join(args, " "),
				IntAsDecimal: intAsDecimal,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&intAsDecimal, "int-as-decimal", false,
		"print integer in decimal format. otherwise, it's printed in hexadecimal format.")
	// Everything after the first SQL word is SQL, even when it looks like a flag.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
