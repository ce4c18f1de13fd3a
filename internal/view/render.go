// Package view renders tickets and notifications for the terminal.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"repairdesk/internal/desk"
	"repairdesk/internal/domain"
)

const (
	idColumnWidth       = 36
	customerColumnWidth = 20
	deviceColumnWidth   = 22
	statusColumnWidth   = 18
	amountColumnWidth   = 12
)

type Renderer struct {
	theme Theme
}

func NewRenderer(theme Theme) Renderer {
	return Renderer{theme: theme}
}

// RenderDetail draws the detail card for one ticket: customer, device and
// problem sections followed by the figures.
func (r Renderer) RenderDetail(detail *desk.Detail) string {
	t := detail.Ticket
	label := lipgloss.NewStyle().Foreground(r.theme.FaintText).Width(16)
	value := lipgloss.NewStyle().Foreground(r.theme.NormalText)
	heading := lipgloss.NewStyle().Bold(true).Foreground(r.theme.HeaderText)

	var b strings.Builder
	row := func(name string, v string) {
		if v == "" {
			v = "-"
		}
		b.WriteString(label.Render(name) + value.Render(v) + "\n")
	}

	b.WriteString(heading.Render("Service "+t.ID) + "  " + r.statusBadge(detail.Status) + "\n\n")

	b.WriteString(heading.Render("Customer") + "\n")
	row("Name", t.Customer.Name)
	row("Phone", t.Customer.Phone)
	row("Address", t.Customer.Address)

	b.WriteString("\n" + heading.Render("Device") + "\n")
	row("Brand", t.Device.Brand)
	row("Model", t.Device.Model)
	row("IMEI", t.Device.IMEI)
	row("Color", t.Device.Color)
	row("RAM / ROM", joinNonEmpty(" / ", t.Device.RAM, t.Device.ROM))
	row("Received by", t.Device.ReceivedBy)
	row("Received on", t.Device.ReceivedDate.String())

	b.WriteString("\n" + heading.Render("Problem") + "\n")
	row("Complaint", string(t.Problem.ComplaintType))
	row("Description", t.Problem.Description)
	row("Product rate", t.Problem.ProductRate.String())
	row("Service charge", t.Problem.ServiceCharge.String())

	b.WriteString("\n")
	row("Total", detail.ComputedTotal.String())
	amount := lipgloss.NewStyle().Bold(true).Foreground(r.theme.AmountHighlight)
	b.WriteString(label.Render("Amount") + amount.Render(detail.Amount.String()) + "\n")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.theme.BorderColor).
		Padding(0, 1)
	return card.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderList draws one line per ticket with its billed amount.
func (r Renderer) RenderList(tickets []domain.ServiceTicket) string {
	if len(tickets) == 0 {
		return lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("No services found")
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(r.theme.HeaderText)
	var b strings.Builder
	b.WriteString(header.Render(r.columns("ID", "CUSTOMER", "DEVICE", "STATUS", "AMOUNT")) + "\n")
	for _, t := range tickets {
		status := lipgloss.NewStyle().Foreground(r.theme.StatusColor(t.Status)).Width(statusColumnWidth).Render(t.Status.String())
		line := cell(t.ID, idColumnWidth) + " " +
			cell(t.Customer.Name, customerColumnWidth) + " " +
			cell(strings.TrimSpace(t.Device.Brand+" "+t.Device.Model), deviceColumnWidth) + " " +
			status + " " +
			lipgloss.NewStyle().Width(amountColumnWidth).Align(lipgloss.Right).Render(t.Amount().String())
		b.WriteString(line + "\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(r.theme.FaintText).Render(fmt.Sprintf("%d service(s)", len(tickets))))
	return b.String()
}

// RenderValidation lists field errors, one per line.
func (r Renderer) RenderValidation(verr *domain.ValidationError) string {
	style := lipgloss.NewStyle().Foreground(r.theme.ErrorText)
	field := lipgloss.NewStyle().Bold(true)
	lines := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		lines = append(lines, style.Render("  "+field.Render(f.Field)+": "+f.Message))
	}
	return strings.Join(lines, "\n")
}

func (r Renderer) statusBadge(status domain.Status) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(r.theme.StatusColor(status)).
		Render(strings.ToUpper(status.String()))
}

func (r Renderer) columns(id, customer, device, status, amount string) string {
	return cell(id, idColumnWidth) + " " +
		cell(customer, customerColumnWidth) + " " +
		cell(device, deviceColumnWidth) + " " +
		cell(status, statusColumnWidth) + " " +
		lipgloss.NewStyle().Width(amountColumnWidth).Align(lipgloss.Right).Render(amount)
}

func cell(text string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(truncate(text, width))
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
