package desk

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"repairdesk/internal/apiclient"
	"repairdesk/internal/config"
	"repairdesk/internal/domain"
)

type fakeAPI struct {
	tickets    []domain.ServiceTicket
	getErr     error
	listErr    error
	writeErr   error
	calls      []string
	lastCreate *domain.ServiceTicket
	lastUpdate *domain.ServiceTicket
}

func (f *fakeAPI) ListTickets(_ context.Context) ([]domain.ServiceTicket, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.ServiceTicket(nil), f.tickets...), nil
}

func (f *fakeAPI) GetTicket(_ context.Context, id string) (*domain.ServiceTicket, error) {
	f.calls = append(f.calls, "get:"+id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.tickets {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, &apiclient.RequestError{Kind: apiclient.KindNotFound, StatusCode: http.StatusNotFound}
}

func (f *fakeAPI) CreateTicket(_ context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	f.calls = append(f.calls, "create")
	f.lastCreate = &ticket
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	created := ticket
	created.ID = "new-1"
	return &created, nil
}

func (f *fakeAPI) UpdateTicket(_ context.Context, id string, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	f.calls = append(f.calls, "update:"+id)
	f.lastUpdate = &ticket
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &ticket, nil
}

type recorder struct {
	successes []string
	errors    []string
	toList    int
}

func (r *recorder) Success(message string) { r.successes = append(r.successes, message) }
func (r *recorder) Error(message string)   { r.errors = append(r.errors, message) }
func (r *recorder) ToList()                { r.toList++ }

func newTestDesk(api *fakeAPI, lookup config.LookupMode) (*Desk, *recorder) {
	rec := &recorder{}
	return New(api, rec, rec, lookup), rec
}

func amt(v int64) *domain.Amount {
	a := domain.NewAmount(v)
	return &a
}

func scenarioForm() domain.TicketForm {
	return domain.TicketForm{
		Customer: domain.Customer{Name: "A", Phone: "555"},
		Device:   domain.DeviceForm{Brand: "B", Model: "M", ReceivedDate: "2024-01-05"},
		Problem: domain.ProblemForm{
			ComplaintType: "hardware",
			Description:   "cracked",
			ProductRate:   amt(200),
			ServiceCharge: amt(50),
		},
	}
}

func storedTicket(id string, status domain.Status) domain.ServiceTicket {
	ticket, err := domain.PrepareCreate(scenarioForm())
	if err != nil {
		panic(err)
	}
	ticket.ID = id
	ticket.Status = status
	return ticket
}

func TestCreateSubmitsPendingTicket(t *testing.T) {
	api := &fakeAPI{}
	d, rec := newTestDesk(api, config.LookupAuto)

	created, err := d.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	require.Equal(t, "new-1", created.ID)

	require.NotNil(t, api.lastCreate)
	require.Equal(t, "250", api.lastCreate.Total.String())
	require.Equal(t, "pending", api.lastCreate.Status.String())
	require.Equal(t, "2024-01-05", api.lastCreate.Device.ReceivedDate.String())
	require.Equal(t, []string{"Service added successfully"}, rec.successes)
	require.Equal(t, 1, rec.toList)
}

func TestCreateRejectsMissingDateWithoutCallingAPI(t *testing.T) {
	api := &fakeAPI{}
	d, rec := newTestDesk(api, config.LookupAuto)

	form := scenarioForm()
	form.Device.ReceivedDate = ""
	_, err := d.Create(context.Background(), form)

	require.ErrorIs(t, err, domain.ErrValidation)
	require.Empty(t, api.calls)
	require.Empty(t, rec.errors)
	require.Zero(t, rec.toList)
}

func TestCreateFailureNotifiesWithoutNavigating(t *testing.T) {
	api := &fakeAPI{writeErr: &apiclient.RequestError{Kind: apiclient.KindServer, StatusCode: http.StatusInternalServerError}}
	d, rec := newTestDesk(api, config.LookupAuto)

	_, err := d.Create(context.Background(), scenarioForm())
	require.Error(t, err)
	require.Equal(t, apiclient.KindServer, apiclient.KindOf(err))
	require.Equal(t, []string{"Failed to save service (server error)"}, rec.errors)
	require.Zero(t, rec.toList)
}

func TestOpenMissingTicketRedirectsWithoutFurtherCalls(t *testing.T) {
	api := &fakeAPI{tickets: []domain.ServiceTicket{storedTicket("Y", domain.StatusPending)}}
	d, rec := newTestDesk(api, config.LookupScan)

	_, err := d.Open(context.Background(), "X")
	require.ErrorIs(t, err, ErrTicketNotFound)
	require.Equal(t, []string{"list"}, api.calls)
	require.Equal(t, []string{"Service not found"}, rec.errors)
	require.Equal(t, 1, rec.toList)
}

func TestOpenAutoFallsBackToScan(t *testing.T) {
	tests := []struct {
		name string
		err  *apiclient.RequestError
	}{
		{name: "method not allowed", err: &apiclient.RequestError{Kind: apiclient.KindClient, StatusCode: http.StatusMethodNotAllowed}},
		{name: "not implemented", err: &apiclient.RequestError{Kind: apiclient.KindServer, StatusCode: http.StatusNotImplemented}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				tickets: []domain.ServiceTicket{storedTicket("X", domain.StatusPending)},
				getErr:  tt.err,
			}
			d, _ := newTestDesk(api, config.LookupAuto)

			detail, err := d.Open(context.Background(), "X")
			require.NoError(t, err)
			require.Equal(t, "X", detail.Ticket.ID)
			require.Equal(t, []string{"get:X", "list"}, api.calls)
		})
	}
}

func TestOpenAutoUsesSingleFetchWhenAvailable(t *testing.T) {
	ticket := storedTicket("X", domain.StatusPending)
	ticket.ManualTotal = amt(300)
	api := &fakeAPI{tickets: []domain.ServiceTicket{ticket}}
	d, _ := newTestDesk(api, config.LookupAuto)

	detail, err := d.Open(context.Background(), "X")
	require.NoError(t, err)
	require.Equal(t, []string{"get:X"}, api.calls)
	require.Equal(t, "250", detail.ComputedTotal.String())
	require.Equal(t, "300", detail.Amount.String())
}

func TestOpenSingleModeMapsNotFound(t *testing.T) {
	api := &fakeAPI{}
	d, rec := newTestDesk(api, config.LookupSingle)

	_, err := d.Open(context.Background(), "X")
	require.ErrorIs(t, err, ErrTicketNotFound)
	require.Equal(t, []string{"get:X"}, api.calls)
	require.Equal(t, 1, rec.toList)
}

func TestOpenFetchFailureStaysOnPage(t *testing.T) {
	api := &fakeAPI{getErr: &apiclient.RequestError{Kind: apiclient.KindTransport, Err: errors.New("dial tcp: refused")}}
	d, rec := newTestDesk(api, config.LookupAuto)

	_, err := d.Open(context.Background(), "X")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTicketNotFound)
	require.Equal(t, []string{"get:X"}, api.calls)
	require.Equal(t, []string{"Failed to fetch service (backend unreachable)"}, rec.errors)
	require.Zero(t, rec.toList)
}

func TestUpdateAppliesPaymentAndTotals(t *testing.T) {
	api := &fakeAPI{tickets: []domain.ServiceTicket{storedTicket("X", domain.StatusPending)}}
	d, rec := newTestDesk(api, config.LookupAuto)

	detail, err := d.Open(context.Background(), "X")
	require.NoError(t, err)

	form := domain.FormFromTicket(detail.Ticket)
	form.Problem.ProductRate = amt(100)
	form.Problem.ServiceCharge = amt(50)
	form.PaymentStatus = "paid"

	_, err = d.Update(context.Background(), detail, form)
	require.NoError(t, err)

	require.NotNil(t, api.lastUpdate)
	require.Equal(t, "X", api.lastUpdate.ID)
	require.Equal(t, "150", api.lastUpdate.Total.String())
	require.Equal(t, "150", api.lastUpdate.ManualTotal.String())
	require.Equal(t, "completed-paid", api.lastUpdate.Status.String())
	require.Equal(t, []string{"get:X", "update:X"}, api.calls)
	require.Equal(t, []string{"Service updated successfully"}, rec.successes)
	require.Equal(t, 1, rec.toList)
}

func TestUpdateWithoutPaymentKeepsStatus(t *testing.T) {
	api := &fakeAPI{}
	d, _ := newTestDesk(api, config.LookupAuto)
	detail := newDetail(storedTicket("X", domain.Completed(domain.PaymentUnpaid)))

	form := domain.FormFromTicket(detail.Ticket)
	form.ManualTotal = amt(120)
	_, err := d.Update(context.Background(), detail, form)
	require.NoError(t, err)
	require.Equal(t, "completed-unpaid", api.lastUpdate.Status.String())
	require.Equal(t, "120", api.lastUpdate.ManualTotal.String())
	require.Equal(t, "250", api.lastUpdate.Total.String())
}

func TestListFiltersByStatus(t *testing.T) {
	api := &fakeAPI{tickets: []domain.ServiceTicket{
		storedTicket("1", domain.StatusPending),
		storedTicket("2", domain.Completed(domain.PaymentPaid)),
	}}
	d, _ := newTestDesk(api, config.LookupAuto)

	paid := domain.Completed(domain.PaymentPaid)
	tickets, err := d.List(context.Background(), domain.TicketFilter{Status: &paid})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, "2", tickets[0].ID)
}
