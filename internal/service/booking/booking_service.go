package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/clock"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/kafka"
	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/reference"
	"github.com/Domenick1991/airfare/internal/repository"
)

const maxPassengerFieldLen = 200

type BookingUseCase interface {
	Reserve(ctx context.Context, input ReserveInput) (*ReserveResult, error)
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
	Cancel(ctx context.Context, input CancelInput) (*CancelResult, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	Lookup(ctx context.Context, reference string) (*domain.Booking, error)
	ExpireLapsedHolds(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the read-side cache invalidated after capacity or price changes.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
	InvalidateQuote(ctx context.Context, flightID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	store    repository.Store
	engine   *pricing.Engine
	refs     *reference.Generator
	clock    clock.Clock
	cache    Cache
	producer Producer
	metrics  *metrics.Metrics
	log      *slog.Logger

	bookingTopic       string
	notificationsTopic string
	priceTopic         string

	holdTTL    time.Duration
	retries    int
	retryDelay time.Duration
}

type BookingServiceOption func(*BookingService)

func WithClock(c clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = c
	}
}

func WithCache(c Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = c
	}
}

// WithProducer publishes booking events to bookingTopic after every commit.
func WithProducer(p Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPriceEventsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.priceTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func WithLogger(l *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = l
	}
}

func WithReferenceGenerator(g *reference.Generator) BookingServiceOption {
	return func(s *BookingService) {
		s.refs = g
	}
}

func NewBookingService(store repository.Store, engine *pricing.Engine, cfg config.BookingConfig, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		store:      store,
		engine:     engine,
		clock:      clock.NewSystem(),
		log:        slog.Default(),
		holdTTL:    cfg.HoldTTL(),
		retries:    cfg.ConfirmRetries,
		retryDelay: cfg.ConfirmRetryDelay(),
	}
	if s.holdTTL <= 0 {
		s.holdTTL = 5 * time.Minute
	}
	if s.retries <= 0 {
		s.retries = 3
	}
	attempts := cfg.ReferenceAttempts
	if attempts <= 0 {
		attempts = 8
	}
	length := cfg.ReferenceLength
	if length <= 0 {
		length = 6
	}
	s.refs = reference.NewGenerator(length, attempts, reference.WithPrefix(cfg.ReferencePrefix))
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "booking_service")
	return s
}

type ReserveInput struct {
	FlightID         int64  `json:"flight_id"`
	Seats            int    `json:"seats"`
	PassengerName    string `json:"passenger_name,omitempty"`
	PassengerContact string `json:"passenger_contact,omitempty"`
}

type ReserveResult struct {
	BookingID          int64             `json:"booking_id"`
	FlightID           int64             `json:"flight_id"`
	Seats              int               `json:"seats"`
	PriceSnapshotCents int64             `json:"price_snapshot_cents"`
	HoldExpiresAt      time.Time         `json:"hold_expires_at"`
	Breakdown          pricing.Breakdown `json:"breakdown"`
}

func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*ReserveResult, error) {
	started := time.Now()
	if err := validateReserve(input); err != nil {
		s.metrics.ObserveOperation("reserve", "invalid", started)
		return nil, err
	}

	var (
		result  *ReserveResult
		booking *domain.Booking
	)
	err := s.withRetry(ctx, "reserve", func() error {
		return s.store.WithTx(ctx, func(ctx context.Context) error {
			flight, err := s.store.Flights.GetForUpdate(ctx, input.FlightID)
			if err != nil {
				return err
			}
			now := s.clock.Now()
			held, err := s.store.Bookings.SumActiveHolds(ctx, flight.ID, now, 0)
			if err != nil {
				return err
			}
			if flight.AvailableSeats-held < input.Seats {
				return domain.ErrNotEnoughSeats
			}

			quote := s.engine.Quote(pricing.InputFromFlight(*flight), nil, now)
			price := quote.PriceCents
			expires := now.Add(s.holdTTL)
			booking = &domain.Booking{
				FlightID:           flight.ID,
				Seats:              input.Seats,
				Status:             domain.BookingStatusReserved,
				PriceSnapshotCents: &price,
				HoldExpiresAt:      &expires,
				PassengerName:      input.PassengerName,
				PassengerContact:   input.PassengerContact,
			}
			if err := s.store.Bookings.Create(ctx, booking); err != nil {
				return err
			}
			result = &ReserveResult{
				BookingID:          booking.ID,
				FlightID:           flight.ID,
				Seats:              input.Seats,
				PriceSnapshotCents: price,
				HoldExpiresAt:      expires,
				Breakdown:          quote.Breakdown,
			}
			return nil
		})
	})
	if err != nil {
		s.metrics.ObserveOperation("reserve", outcomeOf(err), started)
		return nil, err
	}

	s.metrics.ObserveOperation("reserve", "reserved", started)
	s.publishBooking(ctx, kafka.EventBookingReserved, booking, 0)
	return result, nil
}

type ConfirmOutcome string

const (
	OutcomeConfirmed         ConfirmOutcome = "confirmed"
	OutcomeAlreadyConfirmed  ConfirmOutcome = "already_confirmed"
	OutcomeCancelled         ConfirmOutcome = "cancelled"
	OutcomeExpired           ConfirmOutcome = "expired"
	OutcomePaymentFailed     ConfirmOutcome = "payment_failed"
	OutcomeInsufficientSeats ConfirmOutcome = "insufficient_seats"
	OutcomeFlightMissing     ConfirmOutcome = "flight_missing"
)

type ConfirmInput struct {
	BookingID      int64              `json:"booking_id"`
	PaymentSuccess bool               `json:"payment_success"`
	PaymentMeta    domain.PaymentMeta `json:"payment_meta,omitempty"`
}

type ConfirmResult struct {
	Outcome        ConfirmOutcome `json:"outcome"`
	Booking        domain.Booking `json:"booking"`
	PricePaidCents *int64         `json:"price_paid_cents,omitempty"`
	Reference      *string        `json:"reference,omitempty"`
}

// confirmEffects records what a committed confirm must announce.
type confirmEffects struct {
	event     string
	oldPrice  int64
	published bool
}

// Confirm turns a hold into a sale. Non-success outcomes are results, not
// errors: the booking transition they record is committed.
func (s *BookingService) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	started := time.Now()
	if input.BookingID <= 0 {
		s.metrics.ObserveOperation("confirm", "invalid", started)
		return nil, domain.ErrInvalidBookingID
	}

	var (
		result  *ConfirmResult
		effects confirmEffects
	)
	err := s.withRetry(ctx, "confirm", func() error {
		effects = confirmEffects{}
		return s.store.WithTx(ctx, func(ctx context.Context) error {
			r, err := s.confirmTx(ctx, input, &effects)
			result = r
			return err
		})
	})
	if err != nil {
		s.metrics.ObserveOperation("confirm", outcomeOf(err), started)
		return nil, err
	}

	s.metrics.ObserveOperation("confirm", string(result.Outcome), started)
	if effects.published {
		s.invalidate(ctx, result.Booking.FlightID)
		s.metrics.IncPricePublished(domain.AuditReasonBookingConfirm)
		s.publishPrice(ctx, result.Booking.FlightID, effects.oldPrice, *result.PricePaidCents, domain.AuditReasonBookingConfirm)
	}
	if effects.event != "" {
		s.publishBooking(ctx, effects.event, &result.Booking, 0)
	}
	return result, nil
}

func (s *BookingService) confirmTx(ctx context.Context, input ConfirmInput, effects *confirmEffects) (*ConfirmResult, error) {
	now := s.clock.Now()
	b, err := s.store.Bookings.GetForUpdate(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case domain.BookingStatusConfirmed:
		return confirmResult(OutcomeAlreadyConfirmed, b), nil
	case domain.BookingStatusCancelled:
		return confirmResult(OutcomeCancelled, b), nil
	case domain.BookingStatusExpired:
		return confirmResult(OutcomeExpired, b), nil
	}

	if b.HoldLapsed(now) {
		b.Status = domain.BookingStatusExpired
		b.HoldExpiresAt = nil
		if err := s.store.Bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		effects.event = kafka.EventBookingExpired
		return confirmResult(OutcomeExpired, b), nil
	}

	flight, err := s.store.Flights.GetForUpdate(ctx, b.FlightID)
	if errors.Is(err, domain.ErrFlightNotFound) {
		return s.cancelInTx(ctx, b, domain.CancelReasonFlightMissing, OutcomeFlightMissing, nil, effects)
	}
	if err != nil {
		return nil, err
	}
	// Stamps taken under the flight lock keep audit rows and the cooldown
	// anchor in commit order.
	now = s.clock.Now()

	held, err := s.store.Bookings.SumActiveHolds(ctx, flight.ID, now, b.ID)
	if err != nil {
		return nil, err
	}
	if flight.AvailableSeats-held < b.Seats {
		return s.cancelInTx(ctx, b, domain.CancelReasonInsufficientSeats, OutcomeInsufficientSeats, nil, effects)
	}

	if !input.PaymentSuccess {
		return s.cancelInTx(ctx, b, domain.CancelReasonPaymentFailed, OutcomePaymentFailed, input.PaymentMeta, effects)
	}

	if err := s.store.Flights.AdjustAvailable(ctx, flight.ID, -b.Seats); err != nil {
		return nil, err
	}

	var final int64
	if b.PriceSnapshotCents != nil {
		final = *b.PriceSnapshotCents
	} else {
		final = s.engine.Quote(pricing.InputFromFlight(*flight), nil, now).PriceCents
	}

	ref, err := s.claimReference(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Audits.Append(ctx, &domain.PriceAudit{
		FlightID:      flight.ID,
		OldPriceCents: flight.PriceCents,
		NewPriceCents: final,
		Reason:        domain.AuditReasonBookingConfirm,
		ChangedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := s.store.Flights.UpdatePrice(ctx, flight.ID, final, now); err != nil {
		return nil, err
	}
	effects.oldPrice = flight.PriceCents
	effects.published = true
	effects.event = kafka.EventBookingConfirmed

	b.Status = domain.BookingStatusConfirmed
	b.PricePaidCents = &final
	b.Reference = &ref
	b.HoldExpiresAt = nil
	b.PaymentMeta = mergeMeta(b.PaymentMeta, input.PaymentMeta)
	if err := s.store.Bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return confirmResult(OutcomeConfirmed, b), nil
}

func (s *BookingService) cancelInTx(ctx context.Context, b *domain.Booking, reason string, outcome ConfirmOutcome, meta domain.PaymentMeta, effects *confirmEffects) (*ConfirmResult, error) {
	effects.event = kafka.EventBookingCancelled
	b.Status = domain.BookingStatusCancelled
	b.CancelReason = reason
	b.HoldExpiresAt = nil
	b.PaymentMeta = mergeMeta(b.PaymentMeta, meta)
	if err := s.store.Bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return confirmResult(outcome, b), nil
}

// claimReference assigns a fresh reference with a compare-and-set write.
// Collisions retry with a new candidate; once the candidates are spent a
// collision-checking generator picks the last one.
func (s *BookingService) claimReference(ctx context.Context, bookingID int64) (string, error) {
	for i := 0; i < s.refs.Attempts(); i++ {
		candidate, err := s.refs.Candidate()
		if err != nil {
			return "", err
		}
		claimed, err := s.store.Bookings.ClaimReference(ctx, bookingID, candidate)
		if errors.Is(err, domain.ErrReferenceTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		if !claimed {
			return "", fmt.Errorf("%w: booking %d already carries a reference", domain.ErrConflict, bookingID)
		}
		return candidate, nil
	}

	candidate, err := s.refs.Generate(func(c string) (bool, error) {
		return s.store.Bookings.ReferenceExists(ctx, c)
	})
	if err != nil {
		return "", err
	}
	claimed, err := s.store.Bookings.ClaimReference(ctx, bookingID, candidate)
	if err != nil {
		return "", err
	}
	if !claimed {
		return "", fmt.Errorf("%w: booking %d already carries a reference", domain.ErrConflict, bookingID)
	}
	return candidate, nil
}

type CancelStatus string

const (
	CancelStatusCancelled        CancelStatus = "cancelled"
	CancelStatusAlreadyCancelled CancelStatus = "already_cancelled"
	CancelStatusAlreadyExpired   CancelStatus = "already_expired"
)

// CancelInput identifies the booking by id or, when BookingID is zero, by reference.
type CancelInput struct {
	BookingID  int64          `json:"booking_id,omitempty"`
	Reference  string         `json:"reference,omitempty"`
	Refund     bool           `json:"refund"`
	RefundMeta map[string]any `json:"refund_meta,omitempty"`
}

type CancelResult struct {
	Status            CancelStatus   `json:"status"`
	Booking           domain.Booking `json:"booking"`
	Refunded          bool           `json:"refunded"`
	RefundAmountCents *int64         `json:"refund_amount_cents,omitempty"`
	RefundMeta        map[string]any `json:"refund_meta,omitempty"`
}

// Cancel holds the booking row lock for the whole unit of work, so two
// concurrent refund requests produce exactly one refund.
func (s *BookingService) Cancel(ctx context.Context, input CancelInput) (*CancelResult, error) {
	started := time.Now()
	input.Reference = normalizeReference(input.Reference)
	if input.BookingID <= 0 && input.Reference == "" {
		s.metrics.ObserveOperation("cancel", "invalid", started)
		return nil, domain.ErrInvalidBookingID
	}

	var (
		result       *CancelResult
		restored     bool
		currentPrice int64
	)
	err := s.withRetry(ctx, "cancel", func() error {
		restored = false
		return s.store.WithTx(ctx, func(ctx context.Context) error {
			id := input.BookingID
			if id <= 0 {
				found, err := s.store.Bookings.GetByReference(ctx, input.Reference)
				if err != nil {
					return err
				}
				id = found.ID
			}
			b, err := s.store.Bookings.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}

			switch b.Status {
			case domain.BookingStatusCancelled:
				result = &CancelResult{Status: CancelStatusAlreadyCancelled, Booking: *b}
				return nil
			case domain.BookingStatusExpired:
				result = &CancelResult{Status: CancelStatusAlreadyExpired, Booking: *b}
				return nil
			}

			result = &CancelResult{Status: CancelStatusCancelled}
			if b.Status == domain.BookingStatusConfirmed {
				flight, err := s.store.Flights.GetForUpdate(ctx, b.FlightID)
				if err != nil {
					return err
				}
				if err := s.store.Flights.AdjustAvailable(ctx, flight.ID, b.Seats); err != nil {
					return err
				}
				restored = true
				currentPrice = flight.PriceCents

				if input.Refund {
					var amount int64
					if b.PricePaidCents != nil {
						amount = *b.PricePaidCents
					}
					now := s.clock.Now()
					if err := s.store.Audits.Append(ctx, &domain.PriceAudit{
						FlightID:      flight.ID,
						OldPriceCents: flight.PriceCents,
						NewPriceCents: flight.PriceCents,
						Reason:        domain.AuditReasonRefund,
						ChangedAt:     now,
					}); err != nil {
						return err
					}
					meta := input.RefundMeta
					if meta == nil {
						meta = map[string]any{}
					}
					b.PaymentMeta = b.PaymentMeta.WithRefund(domain.Refund{AmountCents: amount, Meta: meta, Timestamp: now})
					result.Refunded = true
					result.RefundAmountCents = &amount
					result.RefundMeta = meta
				}
			}

			b.Status = domain.BookingStatusCancelled
			b.CancelReason = domain.CancelReasonRequested
			b.HoldExpiresAt = nil
			if err := s.store.Bookings.Update(ctx, b); err != nil {
				return err
			}
			result.Booking = *b
			return nil
		})
	})
	if err != nil {
		s.metrics.ObserveOperation("cancel", outcomeOf(err), started)
		return nil, err
	}

	s.metrics.ObserveOperation("cancel", string(result.Status), started)
	if result.Status != CancelStatusCancelled {
		return result, nil
	}
	if restored {
		s.invalidate(ctx, result.Booking.FlightID)
	}
	var refund int64
	if result.RefundAmountCents != nil {
		refund = *result.RefundAmountCents
		s.metrics.IncPricePublished(domain.AuditReasonRefund)
		s.publishPrice(ctx, result.Booking.FlightID, currentPrice, currentPrice, domain.AuditReasonRefund)
	}
	s.publishBooking(ctx, kafka.EventBookingCancelled, &result.Booking, refund)
	return result, nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidBookingID
	}
	return s.store.Bookings.GetByID(ctx, id)
}

// Lookup finds a confirmed booking by its reference. Matching ignores case.
func (s *BookingService) Lookup(ctx context.Context, ref string) (*domain.Booking, error) {
	ref = normalizeReference(ref)
	if ref == "" {
		return nil, domain.ErrInvalidBookingID
	}
	return s.store.Bookings.GetByReference(ctx, ref)
}

// ExpireLapsedHolds flips lapsed holds to expired. Holds never touched the
// flight's available seats, so nothing is released. Capacity checks already
// ignore lapsed holds; this only tidies status for readers.
func (s *BookingService) ExpireLapsedHolds(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.store.Bookings.ExpireLapsed(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publishBooking(ctx, kafka.EventBookingExpired, &expired[i], 0)
	}
	return expired, nil
}

// withRetry reruns fn while it fails with a conflict, sleeping a linearly
// growing delay between attempts. The last error is returned.
func (s *BookingService) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.retries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt == s.retries {
			return err
		}
		s.metrics.IncRetry(op)
		s.log.Warn("retrying after conflict", "operation", op, "attempt", attempt, "error", err)

		timer := time.NewTimer(time.Duration(attempt) * s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func (s *BookingService) invalidate(ctx context.Context, flightID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("invalidate flights cache", "error", err)
	}
	if err := s.cache.InvalidateQuote(ctx, flightID); err != nil {
		s.log.Warn("invalidate quote cache", "flight_id", flightID, "error", err)
	}
}

func (s *BookingService) publishBooking(ctx context.Context, eventType string, b *domain.Booking, refundCents int64) {
	if s.producer == nil || s.bookingTopic == "" || b == nil {
		return
	}
	event := kafka.BookingEvent{
		EventID:           kafka.NewEventID(),
		Type:              eventType,
		BookingID:         b.ID,
		FlightID:          b.FlightID,
		Seats:             b.Seats,
		Status:            string(b.Status),
		PassengerName:     b.PassengerName,
		PassengerContact:  b.PassengerContact,
		RefundAmountCents: refundCents,
		HoldExpiresAt:     b.HoldExpiresAt,
		OccurredAt:        s.clock.Now(),
	}
	if b.Reference != nil {
		event.Reference = *b.Reference
	}
	if b.PricePaidCents != nil {
		event.PriceCents = *b.PricePaidCents
	} else if b.PriceSnapshotCents != nil {
		event.PriceCents = *b.PriceSnapshotCents
	}

	key := strconv.FormatInt(b.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		s.log.Warn("failed to publish booking event", "type", eventType, "booking_id", b.ID, "error", err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.log.Warn("failed to publish notification", "type", eventType, "booking_id", b.ID, "error", err)
		}
	}
}

func (s *BookingService) publishPrice(ctx context.Context, flightID, oldCents, newCents int64, reason string) {
	if s.producer == nil || s.priceTopic == "" {
		return
	}
	event := kafka.PriceChangedEvent{
		EventID:       kafka.NewEventID(),
		Type:          kafka.EventPriceChanged,
		FlightID:      flightID,
		OldPriceCents: oldCents,
		NewPriceCents: newCents,
		Reason:        reason,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.producer.Publish(ctx, s.priceTopic, strconv.FormatInt(flightID, 10), event); err != nil {
		s.log.Warn("failed to publish price event", "flight_id", flightID, "error", err)
	}
}

func validateReserve(in ReserveInput) error {
	if in.FlightID <= 0 {
		return domain.ErrInvalidFlightID
	}
	if in.Seats < 1 {
		return domain.ErrInvalidSeats
	}
	if utf8.RuneCountInString(in.PassengerName) > maxPassengerFieldLen ||
		utf8.RuneCountInString(in.PassengerContact) > maxPassengerFieldLen {
		return domain.ErrPassengerTooLong
	}
	return nil
}

func confirmResult(outcome ConfirmOutcome, b *domain.Booking) *ConfirmResult {
	return &ConfirmResult{
		Outcome:        outcome,
		Booking:        *b,
		PricePaidCents: b.PricePaidCents,
		Reference:      b.Reference,
	}
}

func mergeMeta(base, extra domain.PaymentMeta) domain.PaymentMeta {
	if len(extra) == 0 {
		return base
	}
	out := make(domain.PaymentMeta, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func normalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, reference.ErrGenerationExhausted):
		return "generation_exhausted"
	default:
		return "error"
	}
}

var _ BookingUseCase = (*BookingService)(nil)
