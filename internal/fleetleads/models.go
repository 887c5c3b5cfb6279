package fleetleads

import "time"

// Status is the sales pipeline stage of a fleet lead
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusTrial     Status = "trial"
	StatusConverted Status = "converted"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is a known stage
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusTrial, StatusConverted, StatusRejected:
		return true
	}
	return false
}

// FleetLead is a company asking for recurring fleet washing
type FleetLead struct {
	ID            int64     `json:"id"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Status        Status    `json:"status"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateFleetLeadRequest is the public lead form
type CreateFleetLeadRequest struct {
	CompanyName   string  `json:"company_name" binding:"required,min=1,max=200"`
	ContactPerson string  `json:"contact_person" binding:"required,min=1,max=200"`
	Phone         string  `json:"phone" binding:"required,phone_ye"`
	Status        *Status `json:"status,omitempty" binding:"omitempty,fleet_lead_status"`
	Notes         *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// UpdateStatusRequest moves a lead to another stage
type UpdateStatusRequest struct {
	Status Status  `json:"status" binding:"required,fleet_lead_status"`
	Notes  *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// CreatedEvent is published on fleet_leads.created
type CreatedEvent struct {
	LeadID      int64  `json:"lead_id"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}
