package notifications

import "time"

// TemplateKey names a WhatsApp message template
type TemplateKey string

const (
	TemplateConfirm   TemplateKey = "confirm"
	TemplateReminder  TemplateKey = "reminder"
	TemplateOnTheWay  TemplateKey = "on_the_way"
	TemplateReview    TemplateKey = "review"
	TemplateCanceled  TemplateKey = "canceled"
	TemplatePostponed TemplateKey = "postponed"
	TemplateCustom    TemplateKey = "custom"
)

// Receipt statuses
const (
	StatusQueued = "queued"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// idPrefix marks ids of outbound WhatsApp messages
const idPrefix = "wam_"

// Message is one outbound WhatsApp message. Custom carries the body for
// TemplateCustom and is ignored otherwise.
type Message struct {
	ID       string            `json:"id"`
	Phone    string            `json:"phone"`
	Template TemplateKey       `json:"template"`
	Vars     map[string]string `json:"vars,omitempty"`
	Lang     string            `json:"lang,omitempty"`
	Custom   string            `json:"custom,omitempty"`
}

// Receipt is the delivery outcome of a Message
type Receipt struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ProviderID string    `json:"provider_id,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// SendRequest is the admin request to message a customer
type SendRequest struct {
	Phone    string            `json:"phone" binding:"required,phone_ye"`
	Template TemplateKey       `json:"template" binding:"required"`
	Vars     map[string]string `json:"vars"`
	Lang     string            `json:"lang" binding:"omitempty,oneof=ar en"`
	Custom   string            `json:"custom" binding:"omitempty,max=1000"`
}
