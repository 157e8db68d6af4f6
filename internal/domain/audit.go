package domain

import "time"

const (
	AuditReasonBookingConfirm = "booking_confirm"
	AuditReasonRefund         = "refund"
	AuditReasonSimulator      = "simulator"
)

// PriceAudit is an append-only record of a published price change.
type PriceAudit struct {
	ID            int64     `json:"id"`
	FlightID      int64     `json:"flight_id"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	Reason        string    `json:"reason"`
	ChangedAt     time.Time `json:"changed_at"`
}

// DemandScore is the advisory booking pressure of a flight in [0,1].
type DemandScore struct {
	FlightID  int64     `json:"flight_id"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
