package domain

import "time"

// Flight is a sellable unit of seat inventory.
//
// AvailableSeats has physically sold seats subtracted; active holds are not
// reflected here and live only in the booking ledger.
type Flight struct {
	ID              int64      `json:"id"`
	FlightNumber    string     `json:"flight_number"`
	Airline         string     `json:"airline"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	DepartureTime   time.Time  `json:"departure_time"`
	ArrivalTime     time.Time  `json:"arrival_time"`
	TotalSeats      int        `json:"total_seats"`
	AvailableSeats  int        `json:"available_seats"`
	BasePriceCents  int64      `json:"base_price_cents"`
	PriceCents      int64      `json:"price_cents"`
	LastPriceUpdate *time.Time `json:"last_price_update,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NormalizeBasePrice resolves the pricing anchor: the stored base price when
// set, the published price otherwise. Stores call it once when a row is read.
func NormalizeBasePrice(base *int64, published int64) int64 {
	if base != nil && *base > 0 {
		return *base
	}
	return published
}
