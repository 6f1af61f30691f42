// Package debugger implements the interactive step-debugger launched
// by -debug: a bubbletea TUI that single-steps the CPU, honors
// breakpoints, and dumps register/memory state with go-spew.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/corenes/corenes/internal/console"
)

const bytesPerRow = 16

var headerStyle = lipgloss.NewStyle().Bold(true)

// model is the bubbletea model wrapping a running Console.
type model struct {
	console *console.Console

	breaks  map[uint16]struct{}
	prevPC  uint16
	lastErr error
	running bool
}

// Run launches the interactive debugger over c and blocks until the
// user quits.
func Run(c *console.Console) error {
	m := model{console: c, breaks: map[uint16]struct{}{}}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.lastErr != nil {
		return fm.lastErr
	}
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "s", " ":
		m.step()

	case "r":
		m.running = true
		for m.running {
			m.step()
			if _, hit := m.breaks[m.console.CPU.PC]; hit {
				m.running = false
			}
			if m.console.CPU.Halted() {
				m.running = false
			}
		}

	case "b":
		m.breaks[m.console.CPU.PC] = struct{}{}

	case "c":
		m.breaks = map[uint16]struct{}{}

	case "R":
		m.console.Reset()
		m.prevPC = m.console.CPU.PC
	}

	return m, nil
}

func (m *model) step() {
	m.prevPC = m.console.CPU.PC
	m.console.CPU.Execute()
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.memoryPage(), "  ", m.registers()),
		"",
		m.breakpointList(),
		"",
		headerStyle.Render("next instruction")+": "+m.console.CPU.Trace(),
		"",
		spew.Sdump(m.console.CPU),
		"",
		"(s)tep  (r)un to breakpoint  (b)reak here  (c)lear breaks  (R)eset  (q)uit",
	)
}

func (m model) memoryPage() string {
	pc := m.console.CPU.PC
	start := pc &^ (bytesPerRow - 1)

	lines := []string{"addr  | " + columnHeader()}
	for row := 0; row < 8; row++ {
		base := start + uint16(row*bytesPerRow)
		lines = append(lines, m.renderRow(base))
	}
	return strings.Join(lines, "\n")
}

func columnHeader() string {
	s := ""
	for i := 0; i < bytesPerRow; i++ {
		s += fmt.Sprintf(" %01X  ", i)
	}
	return s
}

func (m model) renderRow(base uint16) string {
	pc := m.console.CPU.PC
	s := fmt.Sprintf("%04X  | ", base)
	for i := 0; i < bytesPerRow; i++ {
		addr := base + uint16(i)
		v := m.console.Bus.Read(addr)
		if addr == pc {
			s += fmt.Sprintf("[%02X]", v)
		} else {
			s += fmt.Sprintf(" %02X ", v)
		}
	}
	return s
}

func (m model) registers() string {
	c := m.console.CPU
	return fmt.Sprintf("PC: %04X (was %04X)\nA:  %02X\nX:  %02X\nY:  %02X\nSP: %02X\nP:  %02X\nCYC:%d\nhalted: %v",
		c.PC, m.prevPC, c.A, c.X, c.Y, c.SP, uint8(c.P), c.Cycles, c.Halted())
}

func (m model) breakpointList() string {
	if len(m.breaks) == 0 {
		return "breakpoints: none"
	}
	s := "breakpoints:"
	for addr := range m.breaks {
		s += fmt.Sprintf(" %04X", addr)
	}
	return s
}
