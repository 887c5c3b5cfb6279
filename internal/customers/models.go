package customers

import "time"

// Customer is a person identified by phone number
type Customer struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	WhatsAppVerified bool      `json:"whatsapp_verified"`
	CreatedAt        time.Time `json:"created_at"`
}
