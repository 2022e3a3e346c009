package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilemark/blockboard/pkg/export"
	"github.com/tilemark/blockboard/pkg/layout"
	"github.com/tilemark/blockboard/pkg/session"
)

// newExportCmd creates the export command. It loads a session, reflows it
// so the geometry is current, and renders the board as a static SVG.
func newExportCmd(configPath *string) *cobra.Command {
	var (
		output string
		names  bool
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "export [session-file]",
		Short: "Render a session as an SVG snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], *configPath, output, names, scale)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: session file with .svg extension)")
	cmd.Flags().BoolVar(&names, "names", false, "label blocks with their file names")
	cmd.Flags().Float64Var(&scale, "scale", 1, "output scale factor")

	return cmd
}

func runExport(cmd *cobra.Command, path, configPath, output string, names bool, scale float64) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	doc, err := session.LoadFile(path)
	if err != nil {
		return err
	}

	store, chains, skipped := session.Apply(doc, logger)
	if skipped > 0 {
		printWarning("skipped %d invalid entries", skipped)
	}
	extent := layout.Reflow(store, chains, layout.ParamsFrom(cfg))

	opts := []export.SVGOption{export.WithChains(chains), export.WithScale(scale)}
	if names {
		opts = append(opts, export.WithFileNames())
	}
	svg := export.RenderSVG(store, extent, opts...)

	if output == "" {
		output = svgPath(path)
	}
	if err := os.WriteFile(output, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done(fmt.Sprintf("exported %d blocks", store.Len()))
	printFile(output)
	return nil
}

// svgPath swaps the file extension for .svg.
func svgPath(path string) string {
	if i := strings.LastIndex(path, "."); i > 0 {
		return path[:i] + ".svg"
	}
	return path + ".svg"
}
