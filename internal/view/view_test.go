package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"repairdesk/internal/desk"
	"repairdesk/internal/domain"
)

func sampleTicket() domain.ServiceTicket {
	manual := domain.NewAmount(120)
	return domain.ServiceTicket{
		ID:       "svc-1",
		Customer: domain.Customer{Name: "Ana", Phone: "555"},
		Device: domain.Device{
			Brand:        "Nokia",
			Model:        "3310",
			ReceivedDate: domain.NewCalendarDate(2024, time.January, 5),
		},
		Problem: domain.Problem{
			ComplaintType: domain.ComplaintHardware,
			Description:   "cracked",
			ProductRate:   domain.NewAmount(100),
			ServiceCharge: domain.NewAmount(50),
		},
		Total:       domain.NewAmount(150),
		ManualTotal: &manual,
		Status:      domain.Completed(domain.PaymentPaid),
	}
}

func TestRenderDetailShowsFigures(t *testing.T) {
	ticket := sampleTicket()
	detail := &desk.Detail{
		Ticket:        ticket,
		ComputedTotal: ticket.ComputedTotal(),
		Amount:        ticket.Amount(),
		Status:        ticket.Status,
	}

	out := NewRenderer(DefaultTheme).RenderDetail(detail)

	require.Contains(t, out, "svc-1")
	require.Contains(t, out, "COMPLETED-PAID")
	require.Contains(t, out, "2024-01-05")
	require.Contains(t, out, "150")
	require.Contains(t, out, "120")
	require.Contains(t, out, "cracked")
}

func TestRenderListShowsAmountPerTicket(t *testing.T) {
	paid := sampleTicket()
	pending := sampleTicket()
	pending.ID = "svc-2"
	pending.ManualTotal = nil
	pending.Status = domain.StatusPending

	out := NewRenderer(DefaultTheme).RenderList([]domain.ServiceTicket{paid, pending})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "svc-1")
	require.Contains(t, lines[1], "120")
	require.Contains(t, lines[2], "svc-2")
	require.Contains(t, lines[2], "pending")
	require.Contains(t, lines[2], "150")
	require.Contains(t, lines[3], "2 service(s)")
}

func TestRenderListEmpty(t *testing.T) {
	require.Contains(t, NewRenderer(DefaultTheme).RenderList(nil), "No services found")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestPrinterRoutesMessages(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, DefaultTheme)

	p.Success("Service added successfully")
	p.Error("Service not found")
	p.ToList()

	require.Contains(t, out.String(), "Service added successfully")
	require.Contains(t, out.String(), "repairdesk list")
	require.Contains(t, errOut.String(), "Service not found")
	require.NotContains(t, out.String(), "Service not found")
}
