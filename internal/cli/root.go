package cli

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/pkg/buildinfo"
	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/errors"
)

// NewRootCommand builds the copnumber command tree. The logger is
// installed into the command context during PersistentPreRun so every
// subcommand retrieves it via loggerFromContext; the optional TOML
// config file is loaded at the same point.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)
	cfg := config.Default()

	root := &cobra.Command{
		Use:          "copnumber",
		Short:        "copnumber decides whether k cops can catch a robber on a graph",
		Long: `copnumber analyzes pursuit games on undirected graphs. Given an
adjacency matrix and a cop count k, it decides by backward induction
whether k cops have a strategy that always captures the robber, and can
additionally extract the optimal pursuit and export the full DP table.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeInvalidArguments, err, "invalid flags")
	})
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a copnumber.toml config file")

	root.AddCommand(newSolveCmd(&cfg))
	root.AddCommand(newInspectCmd())
	root.AddCommand(newGenCmd())
	root.AddCommand(newRenderCmd(&cfg))
	root.AddCommand(newReplayCmd())
	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newCacheCmd(&cfg))

	return root
}

// exactArgs validates positional argument counts with an error code the
// exit-code mapping recognizes as invalid arguments.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New(errors.ErrCodeInvalidArguments,
				"%s expects %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}
