package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"", StatusPending, false},
		{"completed-paid", Completed(PaymentPaid), false},
		{"completed-unpaid", Completed(PaymentUnpaid), false},
		{"completed-", Status{}, true},
		{"completed-later", Status{}, true},
		{"in-progress", Status{}, true},
	}

	for _, tt := range cases {
		got, err := ParseStatus(tt.raw)
		if tt.wantErr {
			require.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		require.Equal(t, tt.want, got, tt.raw)
	}
}

func TestStatusAdvanceNeverReturnsToPending(t *testing.T) {
	paid := PaymentPaid
	unpaid := PaymentUnpaid
	for _, from := range []Status{StatusPending, Completed(PaymentPaid), Completed(PaymentUnpaid)} {
		for _, payment := range []*PaymentOutcome{nil, &paid, &unpaid} {
			next := from.Advance(payment)
			require.True(t, CanTransition(from, next), "%s -> %s", from, next)
			if from.IsCompleted() {
				require.True(t, next.IsCompleted())
			}
		}
	}
	require.False(t, CanTransition(Completed(PaymentPaid), StatusPending))
}

func TestStatusJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Status Status `json:"status"`
	}{Status: Completed(PaymentUnpaid)})
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"completed-unpaid"}`, string(payload))

	var decoded struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":null}`), &decoded))
	require.Equal(t, StatusPending, decoded.Status)
	require.Error(t, json.Unmarshal([]byte(`{"status":"archived"}`), &decoded))
}

func TestCalendarDateJSON(t *testing.T) {
	var ticket ServiceTicket
	require.NoError(t, json.Unmarshal([]byte(`{"device":{"brand":"B","model":"M","receivedDate":"2024-01-05T00:00:00.000Z"},"problem":{"productRate":200}}`), &ticket))
	require.Equal(t, "2024-01-05", ticket.Device.ReceivedDate.String())
	require.Equal(t, "200", ticket.Problem.ProductRate.String())
	require.True(t, ticket.Problem.ServiceCharge.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"device":{"receivedDate":null}}`), &ticket))
	require.True(t, ticket.Device.ReceivedDate.IsZero())
}
