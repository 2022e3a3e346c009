package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
	"github.com/tilemark/blockboard/pkg/session"
)

// testCmd returns a command whose context carries a silent logger, the
// shape every RunE helper expects.
func testCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(withLogger(context.Background(), newLogger(io.Discard, log.FatalLevel)))
	return cmd
}

// writeSession saves a two-image document and returns its path.
func writeSession(t *testing.T) string {
	t.Helper()
	doc := session.Document{
		Version: session.Version,
		Blocks: []session.BlockDoc{
			{
				ID:       uuid.New(),
				Kind:     board.KindImage,
				Path:     "a.png",
				Position: geom.Point{X: 999, Y: 999},
				Size:     geom.Size{W: 200, H: 100},
				Aspect:   2,
				Counter:  3,
			},
			{
				ID:       uuid.New(),
				Kind:     board.KindImage,
				Path:     "b.png",
				Position: geom.Point{X: 0, Y: 0},
				Size:     geom.Size{W: 200, H: 100},
				Aspect:   2,
			},
		},
		View: session.View{Zoom: 1},
	}
	path := filepath.Join(t.TempDir(), "board.json")
	if err := session.SaveFile(path, doc); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	return path
}

func TestRunAlign(t *testing.T) {
	path := writeSession(t)
	out := filepath.Join(t.TempDir(), "aligned.json")

	if err := runAlign(testCmd(t), path, "", 0, out); err != nil {
		t.Fatalf("runAlign() error = %v", err)
	}

	doc, err := session.LoadFile(out)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("block count = %d, want 2", len(doc.Blocks))
	}

	// Default config: padding 32, gap 24. Two 200x100 blocks share a row.
	first, second := doc.Blocks[0], doc.Blocks[1]
	if first.Position.X != 32 || first.Position.Y != 32 {
		t.Errorf("first position = %v, want (32, 32)", first.Position)
	}
	if second.Position.X != 256 || second.Position.Y != 32 {
		t.Errorf("second position = %v, want (256, 32)", second.Position)
	}
	if first.Counter != 3 {
		t.Errorf("counter = %d, want 3 preserved through align", first.Counter)
	}
}

func TestRunAlignOverwritesInput(t *testing.T) {
	path := writeSession(t)

	if err := runAlign(testCmd(t), path, "", 0, ""); err != nil {
		t.Fatalf("runAlign() error = %v", err)
	}

	doc, err := session.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if doc.Blocks[0].Position.X != 32 {
		t.Errorf("input file not rewritten: position.X = %v", doc.Blocks[0].Position.X)
	}
}

func TestRunAlignMissingFile(t *testing.T) {
	err := runAlign(testCmd(t), filepath.Join(t.TempDir(), "nope.json"), "", 0, "")
	if err == nil {
		t.Error("runAlign() should fail on a missing session file")
	}
}

func TestRunExport(t *testing.T) {
	path := writeSession(t)
	out := filepath.Join(t.TempDir(), "board.svg")

	if err := runExport(testCmd(t), path, "", out, true, 1); err != nil {
		t.Fatalf("runExport() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg ") {
		t.Error("output is not an SVG document")
	}
	if !strings.Contains(svg, ">a.png</text>") {
		t.Error("file name labels missing from --names export")
	}
}

func TestRunExportDefaultOutput(t *testing.T) {
	path := writeSession(t)

	if err := runExport(testCmd(t), path, "", "", false, 1); err != nil {
		t.Fatalf("runExport() error = %v", err)
	}

	want := strings.TrimSuffix(path, ".json") + ".svg"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default output %s not written: %v", want, err)
	}
}

func TestSVGPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"board.json", "board.svg"},
		{"dir/board.json", "dir/board.svg"},
		{"noext", "noext.svg"},
		{".hidden", ".hidden.svg"},
	}
	for _, tt := range tests {
		if got := svgPath(tt.in); got != tt.want {
			t.Errorf("svgPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunInspect(t *testing.T) {
	path := writeSession(t)
	if err := runInspect(testCmd(t), path); err != nil {
		t.Errorf("runInspect() error = %v", err)
	}
}

func TestRunInspectMissingFile(t *testing.T) {
	err := runInspect(testCmd(t), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("runInspect() should fail on a missing session file")
	}
}
