package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/session"
)

// newInspectCmd creates the inspect command. It prints a summary of a
// session file followed by a per-block table, without touching the file.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [session-file]",
		Short: "Summarize a saved session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	logger := loggerFromContext(cmd.Context())

	doc, err := session.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Debug("session loaded", "path", path, "blocks", len(doc.Blocks))

	printSummary(doc, path)
	printBlockTable(doc)
	return nil
}

func printSummary(doc session.Document, path string) {
	images, boxes, nested, animated := 0, 0, 0, 0
	for _, b := range doc.Blocks {
		if b.Kind == board.KindBox {
			boxes++
			nested += len(b.Children)
			continue
		}
		images++
		if b.Animated {
			animated++
		}
	}

	fmt.Println(StyleTitle.Render(filepath.Base(path)))
	printNewline()
	printKeyValue("version", fmt.Sprintf("%d", doc.Version))
	printKeyValue("images", fmt.Sprintf("%d", images))
	printKeyValue("boxes", fmt.Sprintf("%d (%d packed)", boxes, nested))
	printKeyValue("animated", fmt.Sprintf("%d", animated))
	printKeyValue("remembered", fmt.Sprintf("%d chains", len(doc.RememberedChains)))
	printKeyValue("zoom", fmt.Sprintf("%.2f", doc.View.Zoom))
	printNewline()
}

func printBlockTable(doc session.Document) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("KIND", "FILE", "POSITION", "SIZE", "COUNT", "FLAGS")

	for _, b := range doc.Blocks {
		t.Row(blockRow(b)...)
		for _, child := range b.Children {
			row := blockRow(child)
			row[1] = "  " + row[1]
			t.Row(row...)
		}
	}
	fmt.Println(t.Render())
}

func blockRow(b session.BlockDoc) []string {
	kind := "image"
	name := filepath.Base(b.Path)
	if b.Kind == board.KindBox {
		kind = "box"
		name = fmt.Sprintf("(%d blocks)", len(b.Children))
	}

	count := ""
	if b.Counter > 0 {
		count = fmt.Sprintf("%d", b.Counter)
	}

	flags := ""
	if b.Chained {
		flags += "chained "
	}
	if b.Animated {
		flags += "animated"
	}

	return []string{
		kind,
		name,
		fmt.Sprintf("%.0f,%.0f", b.Position.X, b.Position.Y),
		fmt.Sprintf("%.0f×%.0f", b.Size.W, b.Size.H),
		count,
		flags,
	}
}
