// Package pricing computes dynamic fares. The engine is a pure function of a
// flight snapshot, an optional demand score and the wall clock; it owns no
// state and never fails.
package pricing

import (
	"math"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeMaxMultiplier = 1.6
	defaultTimeHalfLifeHours = 48.0
	defaultSeatAlpha         = 0.45
	defaultSeatBeta          = 4.0
	defaultDemandWeight      = 0.45
	defaultMinPriceFactor    = 0.6
	defaultMaxPriceFactor    = 3.0
	defaultImminentWindow    = 24.0
	defaultImminentStep      = 0.005

	imminentBucket = 5 * time.Minute

	defaultCooldown             = 5 * time.Minute
	defaultSignificancePct      = 0.01
	defaultSignificanceAbsCents = 5000
)

// Input is the part of a flight the engine reads.
type Input struct {
	BasePriceCents int64
	TotalSeats     int
	AvailableSeats int
	DepartureTime  time.Time
}

func InputFromFlight(f domain.Flight) Input {
	return Input{
		BasePriceCents: f.BasePriceCents,
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
		DepartureTime:  f.DepartureTime,
	}
}

// Breakdown explains every intermediate step of a quote.
type Breakdown struct {
	BaseCents          int64    `json:"base_cents"`
	HoursToDeparture   *float64 `json:"hours_to_departure"`
	DemandScore        float64  `json:"demand_score"`
	TimeMultiplier     float64  `json:"time_mult"`
	SeatMultiplier     float64  `json:"seat_mult"`
	DemandMultiplier   float64  `json:"demand_mult"`
	ImminentMultiplier float64  `json:"imminent_mult"`
	RawPriceCents      float64  `json:"raw_price_cents"`
	ClampedPriceCents  int64    `json:"clamped_price_cents"`
}

type Quote struct {
	PriceCents int64     `json:"price_cents"`
	Breakdown  Breakdown `json:"breakdown"`
}

type Engine struct {
	timeMax        float64
	timeHalfLife   float64
	seatAlpha      float64
	seatBeta       float64
	demandWeight   float64
	minFactor      float64
	maxFactor      float64
	imminentWindow float64
	imminentStep   float64

	cooldown        time.Duration
	significancePct float64
	significanceAbs int64
}

// NewEngine builds an engine from configuration. Zero knobs take defaults.
func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{
		timeMax:         orDefault(cfg.TimeMaxMultiplier, defaultTimeMaxMultiplier),
		timeHalfLife:    orDefault(cfg.TimeHalfLifeHours, defaultTimeHalfLifeHours),
		seatAlpha:       orDefault(cfg.SeatAlpha, defaultSeatAlpha),
		seatBeta:        orDefault(cfg.SeatBeta, defaultSeatBeta),
		demandWeight:    orDefault(cfg.DemandWeight, defaultDemandWeight),
		minFactor:       orDefault(cfg.MinPriceFactor, defaultMinPriceFactor),
		maxFactor:       orDefault(cfg.MaxPriceFactor, defaultMaxPriceFactor),
		imminentWindow:  orDefault(cfg.ImminentWindowHours, defaultImminentWindow),
		imminentStep:    orDefault(cfg.ImminentStep, defaultImminentStep),
		cooldown:        durationOrDefault(cfg.CooldownSeconds, defaultCooldown),
		significancePct: orDefault(cfg.SignificancePct, defaultSignificancePct),
		significanceAbs: int64(orDefault(float64(cfg.SignificanceAbsCents), defaultSignificanceAbsCents)),
	}
}

// Quote prices in at now. A nil demand score is neutral.
func (e *Engine) Quote(in Input, demand *float64, now time.Time) Quote {
	base := in.BasePriceCents
	if base < 0 {
		base = 0
	}

	until, known := untilDeparture(in.DepartureTime, now)
	var hours *float64
	if known {
		h := until.Hours()
		hours = &h
	}
	score := clampUnit(demand)

	tMult := e.timeFactor(hours)
	sMult := e.seatFactor(in.AvailableSeats, in.TotalSeats)
	dMult := 1 + score*e.demandWeight
	iMult := e.imminentFactor(until, known)

	raw := float64(base) * tMult * sMult * dMult * iMult
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		raw = float64(base)
	}
	clamped := math.Max(float64(base)*e.minFactor, math.Min(raw, float64(base)*e.maxFactor))
	price := decimal.NewFromFloat(clamped).Round(0).IntPart()

	return Quote{
		PriceCents: price,
		Breakdown: Breakdown{
			BaseCents:          base,
			HoursToDeparture:   roundPtr(hours, 2),
			DemandScore:        round(score, 4),
			TimeMultiplier:     round(tMult, 4),
			SeatMultiplier:     round(sMult, 4),
			DemandMultiplier:   round(dMult, 4),
			ImminentMultiplier: round(iMult, 4),
			RawPriceCents:      round(raw, 2),
			ClampedPriceCents:  price,
		},
	}
}

func (e *Engine) timeFactor(hours *float64) float64 {
	if hours == nil {
		return 1
	}
	if *hours <= 0 {
		return e.timeMax
	}
	return 1 + (e.timeMax-1)*(1/(1+*hours/e.timeHalfLife))
}

func (e *Engine) seatFactor(available, total int) float64 {
	if total <= 0 {
		return 1
	}
	scarcity := math.Max(0, 1-float64(available)/float64(total))
	scarcity = math.Min(scarcity, 1)
	return 1 + e.seatAlpha*(1-math.Exp(-e.seatBeta*scarcity))
}

// imminentFactor ramps the price once per whole 5-minute bucket elapsed since
// the start of the imminent window.
func (e *Engine) imminentFactor(until time.Duration, known bool) float64 {
	window := time.Duration(e.imminentWindow * float64(time.Hour))
	if !known || until < 0 || until >= window {
		return 1
	}
	buckets := (window - until) / imminentBucket
	return 1 + float64(buckets)*e.imminentStep
}

// ShouldPublish reports whether the cooldown since the last published price
// has elapsed. A flight that was never priced may always be published.
func (e *Engine) ShouldPublish(last *time.Time, now time.Time) bool {
	if last == nil || last.IsZero() {
		return true
	}
	return now.Sub(*last) >= e.cooldown
}

// Significant reports whether moving from oldCents to newCents is worth
// publishing: at least the configured relative change or absolute delta.
func (e *Engine) Significant(oldCents, newCents, baseCents int64) bool {
	delta := newCents - oldCents
	if delta < 0 {
		delta = -delta
	}
	if delta == 0 {
		return false
	}
	if delta >= e.significanceAbs {
		return true
	}
	ref := oldCents
	if ref == 0 {
		ref = baseCents
	}
	if ref == 0 {
		ref = 1
	}
	return float64(delta)/math.Abs(float64(ref)) >= e.significancePct
}

func untilDeparture(departure, now time.Time) (time.Duration, bool) {
	if departure.IsZero() {
		return 0, false
	}
	return departure.Sub(now), true
}

func clampUnit(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return math.Max(0, math.Min(1, *v))
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundPtr(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}

func orDefault(v, def float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return def
	}
	return v
}

func durationOrDefault(seconds int, def time.Duration) time.Duration {
	if seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}
