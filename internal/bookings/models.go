package bookings

import (
	"fmt"
	"time"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/pkg/geo"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a booking
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusOnTheWay  Status = "on_the_way"
	StatusStarted   Status = "started"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusOnTheWay, StatusStarted, StatusFinished, StatusPostponed, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave s
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusCanceled
}

// transitions lists the moves allowed when transition enforcement is on
var transitions = map[Status][]Status{
	StatusConfirmed: {StatusOnTheWay, StatusPostponed, StatusCanceled},
	StatusOnTheWay:  {StatusStarted, StatusPostponed, StatusCanceled},
	StatusStarted:   {StatusFinished, StatusCanceled},
	StatusPostponed: {StatusConfirmed, StatusOnTheWay, StatusCanceled},
}

// CanTransition reports whether from may move to to. Setting the current
// status again is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError reports a status move the transition table forbids
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move booking from %s to %s", e.From, e.To)
}

// Window is the time range a crew is expected to arrive within
type Window struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// Booking is a scheduled wash. Prices are snapshots taken when the booking
// was created.
type Booking struct {
	ID              int64            `json:"id"`
	BookingID       string           `json:"booking_id"`
	CustomerID      int64            `json:"customer_id"`
	ServiceID       int64            `json:"service_id"`
	AddonIDs        []int64          `json:"addon_ids"`
	CarType         catalog.CarType  `json:"car_type"`
	ZoneID          int64            `json:"zone_id"`
	AddressText     string           `json:"address_text"`
	GeoPoint        string           `json:"geo_point"`
	ScheduledWindow Window           `json:"scheduled_window"`
	Status          Status           `json:"status"`
	PriceTotal      decimal.Decimal  `json:"price_total"`
	IsSolo          bool             `json:"is_solo"`
	DistanceFee     *decimal.Decimal `json:"distance_fee"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CustomerInput identifies the person booking
type CustomerInput struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Phone string `json:"phone" binding:"required,phone_ye"`
}

// CreateBookingRequest is the booking wizard submission
type CreateBookingRequest struct {
	Customer        CustomerInput   `json:"customer"`
	ServiceID       int64           `json:"service_id" binding:"required,gt=0"`
	AddonIDs        []int64         `json:"addon_ids" binding:"omitempty,dive,gt=0"`
	CarType         catalog.CarType `json:"car_type" binding:"required,car_type"`
	ZoneID          int64           `json:"zone_id" binding:"required,gt=0"`
	AddressText     string          `json:"address_text" binding:"required,max=500"`
	GeoPoint        *geo.Point      `json:"geo_point" binding:"required"`
	ScheduledWindow Window          `json:"scheduled_window"`
	IsSolo          bool            `json:"is_solo"`
	Lang            string          `json:"lang" binding:"omitempty,oneof=ar en"`
}

// CreateBookingResponse confirms a booking
type CreateBookingResponse struct {
	BookingID      string  `json:"booking_id"`
	PriceTotal     float64 `json:"price_total"`
	NotificationID *string `json:"notification_id"`
}

// WindowPatch changes either end of a booking window
type WindowPatch struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// UpdateBookingRequest is a partial update. Nil fields are left untouched.
type UpdateBookingRequest struct {
	Status          *Status      `json:"status" binding:"omitempty,booking_status"`
	ScheduledWindow *WindowPatch `json:"scheduled_window"`
	AddressText     *string      `json:"address_text" binding:"omitempty,min=1,max=500"`
	GeoPoint        *geo.Point   `json:"geo_point"`
}

// Patch is an update resolved for storage
type Patch struct {
	Status      *Status
	WindowStart *time.Time
	WindowEnd   *time.Time
	AddressText *string
	GeoPoint    *string
	// Guard, when set, vets the status stored at the time of the update
	// before a new status is written
	Guard func(from Status) error
}

// Empty reports whether p changes nothing
func (p *Patch) Empty() bool {
	return p.Status == nil && p.WindowStart == nil && p.WindowEnd == nil &&
		p.AddressText == nil && p.GeoPoint == nil
}

// ListFilter narrows the admin booking list
type ListFilter struct {
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time // exclusive
	ZoneID     *int64
	CustomerID *int64
}

// StatusChange is one row of a booking's status history
type StatusChange struct {
	BookingID  int64     `json:"booking_id"`
	FromStatus *Status   `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// CreatedEvent is published on bookings.created
type CreatedEvent struct {
	ID         int64     `json:"id"`
	BookingID  string    `json:"booking_id"`
	CustomerID int64     `json:"customer_id"`
	ServiceID  int64     `json:"service_id"`
	ZoneID     int64     `json:"zone_id"`
	PriceTotal float64   `json:"price_total"`
	Start      time.Time `json:"start"`
}

// StatusChangedEvent is published on bookings.status_changed
type StatusChangedEvent struct {
	ID        int64  `json:"id"`
	BookingID string `json:"booking_id"`
	From      Status `json:"from"`
	To        Status `json:"to"`
}
