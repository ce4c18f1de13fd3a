package domain

import (
	"fmt"
	"strings"
)

// ComputeTotal adds the product rate and the service charge. Missing values
// count as zero.
func ComputeTotal(productRate *Amount, serviceCharge *Amount) Amount {
	return amountOrZero(productRate).Add(amountOrZero(serviceCharge))
}

// PrepareCreate turns a create form into the payload for a new ticket. The
// status is always pending.
func PrepareCreate(form TicketForm) (ServiceTicket, error) {
	if err := form.Validate(FormCreate); err != nil {
		return ServiceTicket{}, err
	}

	ticket := form.toTicket()
	ticket.Total = ComputeTotal(form.Problem.ProductRate, form.Problem.ServiceCharge)
	ticket.Status = StatusPending
	return ticket, nil
}

// PrepareUpdate applies an edit form to a loaded ticket. A zero or missing
// manual total falls back to the calculated total; a payment status moves
// the ticket to the matching completed status.
func PrepareUpdate(existing ServiceTicket, form TicketForm) (ServiceTicket, error) {
	if err := form.Validate(FormEdit); err != nil {
		return ServiceTicket{}, err
	}

	ticket := form.toTicket()
	ticket.ID = existing.ID
	ticket.CreatedAt = existing.CreatedAt

	calculated := ComputeTotal(form.Problem.ProductRate, form.Problem.ServiceCharge)
	ticket.Total = calculated

	manual := calculated
	if form.ManualTotal != nil && !form.ManualTotal.IsZero() {
		manual = *form.ManualTotal
	}
	ticket.ManualTotal = &manual

	var payment *PaymentOutcome
	if strings.TrimSpace(form.PaymentStatus) != "" {
		outcome, err := ParsePaymentOutcome(form.PaymentStatus)
		if err != nil {
			return ServiceTicket{}, err
		}
		payment = &outcome
	}
	ticket.Status = existing.Status.Advance(payment)
	return ticket, nil
}

// ValidateTicket checks a stored representation, as received by the backend.
func ValidateTicket(t ServiceTicket) error {
	verr := &ValidationError{}
	requireText(verr, "customer.name", t.Customer.Name, "customer name is required")
	requireText(verr, "customer.phone", t.Customer.Phone, "customer phone is required")
	requireText(verr, "device.brand", t.Device.Brand, "device brand is required")
	requireText(verr, "device.model", t.Device.Model, "device model is required")
	if !t.Problem.ComplaintType.Valid() {
		verr.add("problem.complaintType", fmt.Sprintf("complaint type must be one of %s, %s, %s", ComplaintHardware, ComplaintSoftware, ComplaintOther))
	}
	requireText(verr, "problem.description", t.Problem.Description, "problem description is required")
	requireNonNegative(verr, "problem.productRate", &t.Problem.ProductRate, "product rate must not be negative")
	requireNonNegative(verr, "problem.serviceCharge", &t.Problem.ServiceCharge, "service charge must not be negative")
	requireNonNegative(verr, "manualTotal", t.ManualTotal, "manual total must not be negative")
	return verr.orNil()
}

func (f TicketForm) toTicket() ServiceTicket {
	var received CalendarDate
	if strings.TrimSpace(f.Device.ReceivedDate) != "" {
		// Validate has already rejected unparseable dates.
		received, _ = ParseCalendarDate(f.Device.ReceivedDate)
	}

	return ServiceTicket{
		Customer: Customer{
			Name:    strings.TrimSpace(f.Customer.Name),
			Phone:   strings.TrimSpace(f.Customer.Phone),
			Address: strings.TrimSpace(f.Customer.Address),
		},
		Device: Device{
			Brand:        strings.TrimSpace(f.Device.Brand),
			Model:        strings.TrimSpace(f.Device.Model),
			IMEI:         strings.TrimSpace(f.Device.IMEI),
			Color:        strings.TrimSpace(f.Device.Color),
			RAM:          strings.TrimSpace(f.Device.RAM),
			ROM:          strings.TrimSpace(f.Device.ROM),
			Password:     f.Device.Password,
			ReceivedBy:   strings.TrimSpace(f.Device.ReceivedBy),
			ReceivedDate: received,
		},
		Problem: Problem{
			ComplaintType: ComplaintType(strings.TrimSpace(f.Problem.ComplaintType)),
			Description:   strings.TrimSpace(f.Problem.Description),
			ProductRate:   amountOrZero(f.Problem.ProductRate),
			ServiceCharge: amountOrZero(f.Problem.ServiceCharge),
		},
	}
}
