package kafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingReserved  = "booking_reserved"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingExpired   = "booking_expired"
	EventPriceChanged     = "price_changed"
)

type BookingEvent struct {
	EventID           string     `json:"event_id"`
	Type              string     `json:"type"`
	BookingID         int64      `json:"booking_id"`
	FlightID          int64      `json:"flight_id"`
	Seats             int        `json:"seats"`
	Status            string     `json:"status"`
	Reference         string     `json:"reference,omitempty"`
	PassengerName     string     `json:"passenger_name,omitempty"`
	PassengerContact  string     `json:"passenger_contact,omitempty"`
	PriceCents        int64      `json:"price_cents,omitempty"`
	RefundAmountCents int64      `json:"refund_amount_cents,omitempty"`
	HoldExpiresAt     *time.Time `json:"hold_expires_at,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
}

type PriceChangedEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	FlightID      int64     `json:"flight_id"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEventID() string {
	return uuid.NewString()
}
