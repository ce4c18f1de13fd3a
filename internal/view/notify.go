package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer shows desk notifications on a terminal. Success lines go to out,
// errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	theme  Theme

	// ListCommand is printed when the desk sends the user back to the list.
	ListCommand string
}

func NewPrinter(out io.Writer, errOut io.Writer, theme Theme) *Printer {
	return &Printer{out: out, errOut: errOut, theme: theme, ListCommand: "repairdesk list"}
}

func (p *Printer) Success(message string) {
	style := lipgloss.NewStyle().Foreground(p.theme.SuccessText)
	fmt.Fprintln(p.out, style.Render("✓ "+message))
}

func (p *Printer) Error(message string) {
	style := lipgloss.NewStyle().Foreground(p.theme.ErrorText)
	fmt.Fprintln(p.errOut, style.Render("✗ "+message))
}

// ToList has no screen to switch to on a terminal, so it points at the list
// command instead.
func (p *Printer) ToList() {
	style := lipgloss.NewStyle().Foreground(p.theme.FaintText)
	fmt.Fprintln(p.out, style.Render("→ run `"+p.ListCommand+"` to see all services"))
}
