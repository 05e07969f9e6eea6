//go:build !notui

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

var (
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleMarker = lipgloss.NewStyle().Bold(true)
	styleBanner = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

const helpLine = "←/→ move  space select  r new board  q quit"

// refreshMsg asks the model to re-run the win check and redraw after the
// board was changed from outside the event loop.
type refreshMsg struct{}

// Session runs the terminal front end for one puzzle state.
type Session struct {
	board *board
	opts  Options

	mu      sync.Mutex
	program *tea.Program
}

// NewSession creates a Session that plays state.
func NewSession(state *puzzle.State, opts Options) *Session {
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultOptions().CellWidth
	}
	return &Session{board: newBoard(state), opts: opts}
}

// Run blocks until the player quits or ctx is cancelled. Cancellation is
// not an error.
func (s *Session) Run(ctx context.Context) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if s.opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(s.opts.Input))
	} else if fd := os.Stdin.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}
	if s.opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(s.opts.Output))
	}
	if s.opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(s), progOpts...)
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()

	_, err := p.Run()

	s.mu.Lock()
	s.program = nil
	s.mu.Unlock()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Select activates cell index as if the player had selected it.
func (s *Session) Select(index int) error {
	if _, err := s.board.selectCell(index); err != nil {
		return err
	}
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(refreshMsg{})
	}
	return nil
}

// Snapshot returns a copy of the puzzle state.
func (s *Session) Snapshot() puzzle.Snapshot {
	return s.board.snapshot()
}

// SetState replaces the puzzle being played.
func (s *Session) SetState(state *puzzle.State) {
	s.board.setState(state)
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(refreshMsg{})
	}
}

// model is the bubbletea model for the puzzle board.
type model struct {
	session *Session
	cursor  int
	width   int
	banner  string
}

func newModel(s *Session) model {
	return model{session: s, cursor: 1}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.cursor--
		case "right", "l":
			m.cursor++
		case " ", "enter":
			swapped, err := m.session.board.selectCell(m.cursor)
			if err == nil && swapped && m.session.opts.OnSwap != nil {
				m.session.opts.OnSwap()
			}
		case "r":
			m.session.board.reset()
			m.banner = ""
		}
	}

	m.clampCursor()

	if solved, moves, wins := m.session.board.tick(); solved {
		m.banner = fmt.Sprintf("solved in %d moves!", moves)
		if m.session.opts.OnSolved != nil {
			m.session.opts.OnSolved(moves, wins)
		}
	}
	return m, nil
}

// clampCursor keeps the cursor on an interior cell of the current board,
// whose length may have changed through SetState.
func (m *model) clampCursor() {
	n := m.session.board.snapshot().Current.Len()
	if m.cursor < 1 {
		m.cursor = 1
	}
	if m.cursor > n-2 {
		m.cursor = n - 2
	}
}

func (m model) View() string {
	snap := m.session.board.snapshot()
	width := m.cellWidth(snap.Current.Len())

	var cells, marks, cursor strings.Builder
	for i, c := range snap.Current {
		block := strings.Repeat(" ", width)
		cells.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(block))

		switch {
		case snap.Armed && i == snap.Pending:
			marks.WriteString(center("*", width))
		case i == 0 || i == snap.Current.Len()-1:
			marks.WriteString(center("|", width))
		default:
			marks.WriteString(strings.Repeat(" ", width))
		}

		if i == m.cursor {
			cursor.WriteString(center("^", width))
		} else {
			cursor.WriteString(strings.Repeat(" ", width))
		}
	}

	var b strings.Builder
	b.WriteString(cells.String())
	b.WriteString("\n")
	b.WriteString(cells.String())
	b.WriteString("\n")
	b.WriteString(styleMarker.Render(marks.String()))
	b.WriteString("\n")
	b.WriteString(styleMarker.Render(cursor.String()))
	b.WriteString("\n")

	if m.session.opts.ShowStatus {
		b.WriteString(styleMuted.Render(fmt.Sprintf("moves: %d  solved: %d", snap.Moves, snap.Wins)))
		if m.banner != "" {
			b.WriteString("  ")
			b.WriteString(styleBanner.Render(m.banner))
		}
		b.WriteString("\n")
		b.WriteString(styleMuted.Render(helpLine))
		b.WriteString("\n")
	}
	return b.String()
}

// cellWidth shrinks cells to fit narrow terminals.
func (m model) cellWidth(n int) int {
	w := m.session.opts.CellWidth
	if m.width > 0 && n > 0 && w*n > m.width {
		w = m.width / n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// center pads s to width columns.
func center(s string, width int) string {
	if width <= 1 {
		return s
	}
	left := (width - 1) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-left-1)
}
