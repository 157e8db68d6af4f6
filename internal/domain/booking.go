package domain

import "time"

type BookingStatus string

const (
	BookingStatusReserved  BookingStatus = "reserved"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

const (
	CancelReasonRequested         = "requested"
	CancelReasonPaymentFailed     = "payment_failed"
	CancelReasonInsufficientSeats = "insufficient_seats"
	CancelReasonFlightMissing     = "flight_missing"
)

type Booking struct {
	ID                 int64         `json:"id"`
	FlightID           int64         `json:"flight_id"`
	Seats              int           `json:"seats"`
	Status             BookingStatus `json:"status"`
	PriceSnapshotCents *int64        `json:"price_snapshot_cents,omitempty"`
	PricePaidCents     *int64        `json:"price_paid_cents,omitempty"`
	Reference          *string       `json:"reference,omitempty"`
	HoldExpiresAt      *time.Time    `json:"hold_expires_at,omitempty"`
	PassengerName      string        `json:"passenger_name,omitempty"`
	PassengerContact   string        `json:"passenger_contact,omitempty"`
	CancelReason       string        `json:"cancel_reason,omitempty"`
	PaymentMeta        PaymentMeta   `json:"payment_meta,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// HoldActive reports whether the booking still counts against inventory at now.
func (b *Booking) HoldActive(now time.Time) bool {
	return b.Status == BookingStatusReserved && b.HoldExpiresAt != nil && b.HoldExpiresAt.After(now)
}

// HoldLapsed reports whether a reserved booking is past its deadline.
func (b *Booking) HoldLapsed(now time.Time) bool {
	return b.Status == BookingStatusReserved && (b.HoldExpiresAt == nil || !b.HoldExpiresAt.After(now))
}

// PaymentMeta is opaque gateway metadata stored as a JSON object.
type PaymentMeta map[string]any

const refundsKey = "refunds"

// Refund is one entry of the accumulated refund log.
type Refund struct {
	AmountCents int64          `json:"amount_cents"`
	Meta        map[string]any `json:"meta"`
	Timestamp   time.Time      `json:"timestamp"`
}

// WithRefund returns a copy of m with r appended to its refund log. Existing
// keys, including earlier refunds, are preserved.
func (m PaymentMeta) WithRefund(r Refund) PaymentMeta {
	out := make(PaymentMeta, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	var refunds []any
	if existing, ok := out[refundsKey].([]any); ok {
		refunds = append(refunds, existing...)
	}
	meta := r.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	refunds = append(refunds, map[string]any{
		"amount_cents": r.AmountCents,
		"meta":         meta,
		"timestamp":    r.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	out[refundsKey] = refunds
	return out
}

// RefundCount returns how many refunds have been recorded.
func (m PaymentMeta) RefundCount() int {
	existing, _ := m[refundsKey].([]any)
	return len(existing)
}
