package domain

import (
	"errors"
	"fmt"
	"strings"
)

type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// TicketForm holds submitted form values before they become a ticket. The
// received date stays a raw string so an unparseable value is reported as a
// field error rather than lost during decoding.
type TicketForm struct {
	Customer      Customer    `json:"customer" yaml:"customer"`
	Device        DeviceForm  `json:"device" yaml:"device"`
	Problem       ProblemForm `json:"problem" yaml:"problem"`
	ManualTotal   *Amount     `json:"manualTotal,omitempty" yaml:"manualTotal,omitempty"`
	PaymentStatus string      `json:"paymentStatus,omitempty" yaml:"paymentStatus,omitempty"`
}

type DeviceForm struct {
	Brand        string `json:"brand" yaml:"brand"`
	Model        string `json:"model" yaml:"model"`
	IMEI         string `json:"imei,omitempty" yaml:"imei,omitempty"`
	Color        string `json:"color,omitempty" yaml:"color,omitempty"`
	RAM          string `json:"ram,omitempty" yaml:"ram,omitempty"`
	ROM          string `json:"rom,omitempty" yaml:"rom,omitempty"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	ReceivedBy   string `json:"receivedBy,omitempty" yaml:"receivedBy,omitempty"`
	ReceivedDate string `json:"receivedDate,omitempty" yaml:"receivedDate,omitempty"`
}

type ProblemForm struct {
	ComplaintType string  `json:"complaintType" yaml:"complaintType"`
	Description   string  `json:"description" yaml:"description"`
	ProductRate   *Amount `json:"productRate,omitempty" yaml:"productRate,omitempty"`
	ServiceCharge *Amount `json:"serviceCharge,omitempty" yaml:"serviceCharge,omitempty"`
}

var ErrValidation = errors.New("validation failed")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message returns the first failure recorded for field.
func (e *ValidationError) Message(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (f TicketForm) Validate(mode FormMode) error {
	verr := &ValidationError{}

	requireText(verr, "customer.name", f.Customer.Name, "Please enter customer name")
	requireText(verr, "customer.phone", f.Customer.Phone, "Please enter mobile number")
	requireText(verr, "device.brand", f.Device.Brand, "Please enter brand")
	requireText(verr, "device.model", f.Device.Model, "Please enter model")

	if strings.TrimSpace(f.Device.ReceivedDate) == "" {
		if mode == FormCreate {
			verr.add("device.receivedDate", "Please select received date")
		}
	} else if _, err := ParseCalendarDate(f.Device.ReceivedDate); err != nil {
		verr.add("device.receivedDate", "Invalid date")
	}

	complaint := strings.TrimSpace(f.Problem.ComplaintType)
	switch {
	case complaint == "":
		verr.add("problem.complaintType", "Please select complaint type")
	case !ComplaintType(complaint).Valid():
		verr.add("problem.complaintType", "Invalid complaint type")
	}
	requireText(verr, "problem.description", f.Problem.Description, "Please enter problem description")

	requireNonNegative(verr, "problem.productRate", f.Problem.ProductRate, "Product rate must not be negative")
	requireNonNegative(verr, "problem.serviceCharge", f.Problem.ServiceCharge, "Service charge must not be negative")

	if mode == FormEdit {
		requireNonNegative(verr, "manualTotal", f.ManualTotal, "Manual amount must not be negative")
		if strings.TrimSpace(f.PaymentStatus) != "" {
			if _, err := ParsePaymentOutcome(f.PaymentStatus); err != nil {
				verr.add("paymentStatus", "Invalid payment status")
			}
		}
	}

	return verr.orNil()
}

func requireText(verr *ValidationError, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		verr.add(field, message)
	}
}

func requireNonNegative(verr *ValidationError, field string, value *Amount, message string) {
	if value != nil && value.IsNegative() {
		verr.add(field, message)
	}
}

// FormFromTicket prefills an edit form with a loaded ticket.
func FormFromTicket(t ServiceTicket) TicketForm {
	productRate := t.Problem.ProductRate
	serviceCharge := t.Problem.ServiceCharge
	form := TicketForm{
		Customer: t.Customer,
		Device: DeviceForm{
			Brand:        t.Device.Brand,
			Model:        t.Device.Model,
			IMEI:         t.Device.IMEI,
			Color:        t.Device.Color,
			RAM:          t.Device.RAM,
			ROM:          t.Device.ROM,
			Password:     t.Device.Password,
			ReceivedBy:   t.Device.ReceivedBy,
			ReceivedDate: t.Device.ReceivedDate.String(),
		},
		Problem: ProblemForm{
			ComplaintType: string(t.Problem.ComplaintType),
			Description:   t.Problem.Description,
			ProductRate:   &productRate,
			ServiceCharge: &serviceCharge,
		},
	}
	if t.ManualTotal != nil {
		manual := *t.ManualTotal
		form.ManualTotal = &manual
	}
	return form
}
