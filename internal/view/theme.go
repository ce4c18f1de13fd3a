package view

import (
	"github.com/charmbracelet/lipgloss"

	"repairdesk/internal/domain"
)

// Theme holds the ANSI 256 colors used by the terminal output.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	StatusPending   lipgloss.Color
	StatusPaid      lipgloss.Color
	StatusUnpaid    lipgloss.Color
	SuccessText     lipgloss.Color
	ErrorText       lipgloss.Color
	HeaderText      lipgloss.Color
	BorderColor     lipgloss.Color
	AmountHighlight lipgloss.Color
}

func (theme Theme) StatusColor(status domain.Status) lipgloss.Color {
	outcome, completed := status.Outcome()
	switch {
	case !completed:
		return theme.StatusPending
	case outcome == domain.PaymentPaid:
		return theme.StatusPaid
	case outcome == domain.PaymentUnpaid:
		return theme.StatusUnpaid
	default:
		return theme.FaintText
	}
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	StatusPending: lipgloss.Color("220"), // amber
	StatusPaid:    lipgloss.Color("114"), // green
	StatusUnpaid:  lipgloss.Color("208"), // orange

	SuccessText:     lipgloss.Color("114"),
	ErrorText:       lipgloss.Color("196"),
	HeaderText:      lipgloss.Color("255"),
	BorderColor:     lipgloss.Color("240"),
	AmountHighlight: lipgloss.Color("75"),
}
