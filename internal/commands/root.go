package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/finsight/internal/buildinfo"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "finsight",
		Short:   "Personal finance dashboard backend",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.toml (default $HOME/.config/finsight/config.toml)")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newUserCommand(opts),
		newImportCommand(opts),
		newReconcileCommand(opts),
		newCleanupCommand(opts),
		newResetCommand(opts),
		newReviewCommand(opts),
		newDemoCommand(),
	)

	return rootCmd
}
