package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tilemark/blockboard/pkg/buildinfo"
	"github.com/tilemark/blockboard/pkg/config"
)

// Execute runs the blockboard CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (inspect,
// align, export, board), configures logging based on the --verbose flag,
// and executes the command tree against ctx, so an interrupt delivered to
// the process cancels the running command.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "blockboard",
		Short:        "Blockboard arranges image blocks on an infinite canvas",
		Long:         `Blockboard is a whiteboard engine that lays out image blocks in height-normalized rows, with chaining, boxes, counters, and animated image playback. The CLI works with saved session files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newAlignCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newBoardCmd(&configPath))

	return root.ExecuteContext(ctx)
}

// loadConfig resolves the engine configuration for a command. An empty
// path yields the compiled defaults; otherwise the named TOML file is
// overlaid onto them.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
