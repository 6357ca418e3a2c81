package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Console prints notifications as single lines for the CLI
type Console struct {
	out io.Writer
}

// NewConsole creates a console notifier writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, successStyle.Render("✓")+" "+msg)
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, errorStyle.Render("✗")+" "+msg)
}

func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, infoStyle.Render("•")+" "+msg)
}
