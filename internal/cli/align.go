package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilemark/blockboard/pkg/layout"
	"github.com/tilemark/blockboard/pkg/session"
)

// newAlignCmd creates the align command. It loads a session, re-runs the
// reflow layout over it, and writes the result back. Useful after editing
// a session file by hand or changing layout parameters in the config.
func newAlignCmd(configPath *string) *cobra.Command {
	var (
		width  float64
		output string
	)

	cmd := &cobra.Command{
		Use:   "align [session-file]",
		Short: "Re-run the reflow layout over a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd, args[0], *configPath, width, output)
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "canvas width override (0 uses the config value)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of overwriting the input")

	return cmd
}

func runAlign(cmd *cobra.Command, path, configPath string, width float64, output string) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if width > cfg.MinCanvasWidth() {
		cfg.CanvasWidth = width
	}

	doc, err := session.LoadFile(path)
	if err != nil {
		return err
	}

	store, chains, skipped := session.Apply(doc, logger)
	if skipped > 0 {
		printWarning("skipped %d invalid entries", skipped)
	}

	params := layout.ParamsFrom(cfg)
	extent := layout.Reflow(store, chains, params)
	logger.Debug("reflow complete", "width", params.CanvasWidth, "extent_w", extent.W, "extent_h", extent.H)

	if output == "" {
		output = path
	}
	aligned := session.Build(store, chains, doc.View)
	if err := session.SaveFile(output, aligned); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("aligned %d blocks into %.0f×%.0f", store.Len(), extent.W, extent.H))
	printFile(output)
	return nil
}
