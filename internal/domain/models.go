package domain

import "time"

type ComplaintType string

const (
	ComplaintHardware ComplaintType = "hardware"
	ComplaintSoftware ComplaintType = "software"
	ComplaintOther    ComplaintType = "other"
)

func (c ComplaintType) Valid() bool {
	switch c {
	case ComplaintHardware, ComplaintSoftware, ComplaintOther:
		return true
	}
	return false
}

type Customer struct {
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone" yaml:"phone"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

type Device struct {
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	IMEI         string       `json:"imei,omitempty"`
	Color        string       `json:"color,omitempty"`
	RAM          string       `json:"ram,omitempty"`
	ROM          string       `json:"rom,omitempty"`
	Password     string       `json:"password,omitempty"`
	ReceivedBy   string       `json:"receivedBy,omitempty"`
	ReceivedDate CalendarDate `json:"receivedDate"`
}

type Problem struct {
	ComplaintType ComplaintType `json:"complaintType"`
	Description   string        `json:"description"`
	ProductRate   Amount        `json:"productRate"`
	ServiceCharge Amount        `json:"serviceCharge"`
}

type ServiceTicket struct {
	ID          string     `json:"_id,omitempty"`
	Customer    Customer   `json:"customer"`
	Device      Device     `json:"device"`
	Problem     Problem    `json:"problem"`
	Total       Amount     `json:"total"`
	ManualTotal *Amount    `json:"manualTotal,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ComputedTotal is the sum of the current rates, independent of the stored
// total.
func (t ServiceTicket) ComputedTotal() Amount {
	return ComputeTotal(&t.Problem.ProductRate, &t.Problem.ServiceCharge)
}

// Amount is the figure billed to the customer: the manual override when one
// is set, the computed total otherwise.
func (t ServiceTicket) Amount() Amount {
	if t.ManualTotal != nil && !t.ManualTotal.IsZero() {
		return *t.ManualTotal
	}
	return t.ComputedTotal()
}

type TicketFilter struct {
	Status *Status
}

type Actor struct {
	Username string
	Role     string
}

const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
)

type StaffAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expiresAt"`
}
