package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/engine"
	"github.com/tilemark/blockboard/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listChainStyle    = lipgloss.NewStyle().Foreground(colorRed)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tickInterval is the engine poll cadence while the board is open.
const tickInterval = 100 * time.Millisecond

// newBoardCmd creates the board command: an interactive terminal view of a
// live engine. Image paths given as arguments are added to the canvas;
// --session loads an existing session first and is the default save target.
func newBoardCmd(configPath *string) *cobra.Command {
	var sessionPath string

	cmd := &cobra.Command{
		Use:   "board [images...]",
		Short: "Open an interactive terminal board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, args, *configPath, sessionPath)
		},
	}

	cmd.Flags().StringVarP(&sessionPath, "session", "s", "", "session file to load and save")

	return cmd
}

func runBoard(cmd *cobra.Command, images []string, configPath, sessionPath string) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	eng := engine.New(cfg, engine.WithLogger(logger))
	defer eng.Close()

	if sessionPath != "" {
		doc, err := session.LoadFile(sessionPath)
		if err == nil {
			eng.LoadSession(doc)
		} else {
			logger.Debug("starting with an empty board", "path", sessionPath, "err", err)
		}
	}
	eng.AddImages(images)

	model := newBoardModel(eng, sessionPath)
	prog, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}

	if final, ok := prog.(boardModel); ok && final.status != "" {
		printInfo("%s", final.status)
	}
	return nil
}

// =============================================================================
// boardModel - Interactive canvas view
// =============================================================================

// tickMsg drives the engine's poll loop.
type tickMsg time.Time

// boardModel is the bubbletea model for the interactive board. It renders
// the engine's top-level blocks as a scrollable table and translates key
// presses into engine intents.
type boardModel struct {
	eng     *engine.Engine
	session string

	Cursor int
	Offset int
	Height int

	status string
}

func newBoardModel(eng *engine.Engine, sessionPath string) boardModel {
	return boardModel{
		eng:     eng,
		session: sessionPath,
		Height:  15,
	}
}

func (m boardModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// cursorID is the block under the cursor, or uuid.Nil on an empty board.
func (m boardModel) cursorID() uuid.UUID {
	ids := m.eng.Store().OrderedIDs()
	if len(ids) == 0 || m.Cursor >= len(ids) {
		return uuid.Nil
	}
	return ids[m.Cursor]
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.eng.Tick()
		m.clampCursor()
		return m, tick()

	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.cursorID()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}

	case "down", "j":
		if m.Cursor < m.eng.Store().Len()-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}

	case "c":
		if id != uuid.Nil {
			m.eng.ToggleChain(id)
		}
	case "x":
		m.eng.ClearChain()
	case "b":
		m.eng.ToggleBox()
	case "u":
		if b := m.eng.Store().Get(id); b != nil && b.IsBox() {
			m.eng.UnpackBox(id)
		}
	case "+", "=":
		if id != uuid.Nil {
			m.eng.IncrementCounter(id)
		}
	case "-":
		if id != uuid.Nil {
			m.eng.DecrementCounter(id)
		}
	case "0":
		m.eng.ResetCounters()
	case "p", " ":
		if id != uuid.Nil {
			m.eng.ToggleAnimation(id)
		}
	case "d":
		if id != uuid.Nil {
			m.eng.Delete(id)
			m.clampCursor()
		}
	case "s":
		m.status = m.save()
	}
	return m, nil
}

// clampCursor keeps the cursor on a real block after deletions, packs,
// and unpacks change the top-level count.
func (m *boardModel) clampCursor() {
	n := m.eng.Store().Len()
	if n == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
}

func (m boardModel) save() string {
	if m.session == "" {
		return "no session file set, start with --session to save"
	}
	if err := session.SaveFile(m.session, m.eng.SaveSession()); err != nil {
		return fmt.Sprintf("save failed: %v", err)
	}
	return "saved " + m.session
}

func (m boardModel) View() string {
	var b strings.Builder

	extent := m.eng.Extent()
	b.WriteString(StyleTitle.Render("Blockboard"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d blocks · %.0f×%.0f", m.eng.Store().Len(), extent.W, extent.H)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  c chain  x unchain  b box  u unpack  +/- count  p play  d delete  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m boardModel) renderTable() string {
	store := m.eng.Store()
	chains := m.eng.Chains()
	ids := store.OrderedIDs()

	end := m.Offset + m.Height
	if end > len(ids) {
		end = len(ids)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "BLOCK", "POSITION", "SIZE", "COUNT", "STATE")

	for i := m.Offset; i < end; i++ {
		blk := store.Get(ids[i])
		if blk == nil {
			continue
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = listSelectedStyle.Render("▸ ")
		}

		name := filepath.Base(blk.Path)
		if blk.IsBox() {
			name = fmt.Sprintf("box (%d)", len(blk.Children))
		}
		if chains.Selected(store, blk.ID) {
			name = listChainStyle.Render(name)
		}

		count := ""
		if blk.Counter > 0 {
			count = fmt.Sprintf("%d", blk.Counter)
		}

		t.Row(
			cursor,
			name,
			fmt.Sprintf("%.0f,%.0f", blk.Pos.X, blk.Pos.Y),
			fmt.Sprintf("%.0f×%.0f", blk.Size.W, blk.Size.H),
			count,
			blockState(blk),
		)
	}
	return t.Render()
}

// blockState summarizes a block's decode and playback state for display.
func blockState(b *board.Block) string {
	switch {
	case b.Display == board.DisplayPending:
		return "pending"
	case b.Display == board.DisplayError:
		return "error"
	case b.AnimEnabled:
		return "playing"
	case b.HasAnimation:
		return "animated"
	default:
		return "ready"
	}
}
