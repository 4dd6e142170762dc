package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/brewcart/internal/cart"
	"github.com/angelmondragon/brewcart/internal/catalog"
	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/internal/pricing"
	"github.com/angelmondragon/brewcart/internal/promo"
	"github.com/angelmondragon/brewcart/internal/session"
	"github.com/angelmondragon/brewcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/logger"
	"github.com/angelmondragon/brewcart/pkg/metrics"
	"github.com/angelmondragon/brewcart/pkg/money"
)

const defaultSubmitTimeout = 10 * time.Second

type lastOrderStore interface {
	Save(ctx context.Context, order orders.Order) error
	Last(ctx context.Context) (orders.Order, bool, error)
}

type contactStore interface {
	Save(ctx context.Context, details orders.DeliveryDetails) error
}

type outcomeRecorder interface {
	ObserveSubmit(outcome string, duration time.Duration)
	IncRejected(reason string)
}

// Service turns the cart into a payable order.
type Service interface {
	State() enums.CheckoutState
	ApplyPromo(ctx context.Context, code string, fulfillment orders.Fulfillment) (Quote, error)
	RemovePromo(ctx context.Context) error
	Quote(ctx context.Context, fulfillment orders.Fulfillment) (Quote, error)
	Submit(ctx context.Context, input SubmitInput) (orders.Order, error)
	DefaultPickupTime(now time.Time) time.Time
}

// Quote is the fee and discount breakdown for the current cart.
type Quote struct {
	ItemCount     int          `json:"itemCount"`
	Subtotal      money.Amount `json:"subtotal"`
	DeliveryFee   money.Amount `json:"deliveryFee"`
	PromoCode     string       `json:"promoCode,omitempty"`
	PromoDiscount money.Amount `json:"promoDiscount"`
	PromoNotice   string       `json:"promoNotice,omitempty"`
	GrandTotal    money.Amount `json:"grandTotal"`
}

// SubmitInput is one checkout attempt. Reusing an AttemptKey that already
// produced an order returns that order instead of placing another.
type SubmitInput struct {
	AttemptKey    string
	Fulfillment   orders.Fulfillment
	PaymentMethod enums.PaymentMethod
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Cart          cart.Store
	Menu          catalog.Source
	Promos        promo.Catalog
	Submitter     orders.Submitter
	LastOrder     lastOrderStore
	// Contacts receives the delivery details of each placed delivery order. Optional.
	Contacts      contactStore
	Credentials   session.CredentialSource
	Policy        Policy
	SubmitTimeout time.Duration
	Metrics       outcomeRecorder
	Logger        *logger.Logger
	Clock         func() time.Time
}

type service struct {
	cart          cart.Store
	menu          catalog.Source
	promos        promo.Catalog
	submitter     orders.Submitter
	lastOrder     lastOrderStore
	contacts      contactStore
	credentials   session.CredentialSource
	policy        Policy
	submitTimeout time.Duration
	metrics       outcomeRecorder
	logg          *logger.Logger
	now           func() time.Time

	mu         sync.Mutex
	state      enums.CheckoutState
	inFlight   bool
	promo      *promo.Promo
	lastPlaced *orders.Order
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu source required")
	}
	if params.Promos == nil {
		return nil, fmt.Errorf("promo catalog required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if params.LastOrder == nil {
		return nil, fmt.Errorf("last order store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	credentials := params.Credentials
	if credentials == nil {
		credentials = session.Static("")
	}
	timeout := params.SubmitTimeout
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	var recorder outcomeRecorder = metrics.NewCheckoutMetrics(nil)
	if params.Metrics != nil {
		recorder = params.Metrics
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		cart:          params.Cart,
		menu:          params.Menu,
		promos:        params.Promos,
		submitter:     params.Submitter,
		lastOrder:     params.LastOrder,
		contacts:      params.Contacts,
		credentials:   credentials,
		policy:        params.Policy,
		submitTimeout: timeout,
		metrics:       recorder,
		logg:          params.Logger,
		now:           clock,
		state:         enums.CheckoutStateReviewing,
	}, nil
}

func (s *service) State() enums.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) DefaultPickupTime(now time.Time) time.Time {
	return s.policy.DefaultPickupTime(now)
}

// ApplyPromo activates a code. Only one code may be active; a second one is a
// conflict until the first is removed.
func (s *service) ApplyPromo(ctx context.Context, code string, fulfillment orders.Fulfillment) (Quote, error) {
	found, err := s.promos.Lookup(ctx, code, s.now())
	if err != nil {
		return Quote{}, err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Quote{}, errSubmitInProgress()
	}
	if s.promo != nil && s.promo.Code != found.Code {
		active := s.promo.Code
		s.mu.Unlock()
		return Quote{}, pkgerrors.New(pkgerrors.CodeConflict, "a promo code is already applied").
			WithDetails(map[string]any{"activeCode": active})
	}
	s.promo = &found
	s.reviewLocked(ctx)
	s.mu.Unlock()

	s.logg.Info(s.logg.WithField(ctx, "promo_code", found.Code), "promo applied")
	return s.Quote(ctx, fulfillment)
}

func (s *service) RemovePromo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return errSubmitInProgress()
	}
	s.promo = nil
	s.reviewLocked(ctx)
	return nil
}

// Quote prices the current cart for the given fulfillment without changing state.
// The promo discount is recomputed every time since the cart may have changed.
func (s *service) Quote(ctx context.Context, fulfillment orders.Fulfillment) (Quote, error) {
	menu, err := s.menu.Menu(ctx)
	if err != nil {
		return Quote{}, err
	}
	s.mu.Lock()
	active := s.promo
	s.mu.Unlock()

	return s.quote(s.cart.Snapshot(ctx), menu, fulfillment, active), nil
}

func (s *service) quote(c cart.Cart, menu *catalog.Menu, fulfillment orders.Fulfillment, active *promo.Promo) Quote {
	price := pricing.Breakdown(c, menu)
	q := Quote{
		ItemCount:   price.ItemCount,
		Subtotal:    price.Subtotal,
		DeliveryFee: s.policy.DeliveryFeeFor(price.Subtotal, fulfillment),
	}
	if active != nil {
		outcome := active.Evaluate(q.Subtotal, q.DeliveryFee)
		q.PromoCode = active.Code
		q.PromoDiscount = outcome.Discount
		q.PromoNotice = outcome.Notice
	}
	q.GrandTotal = money.Sum(q.Subtotal, q.DeliveryFee, -q.PromoDiscount).NonNegative()
	return q
}

// Submit validates and places the order. It is at-most-once: concurrent calls
// are rejected while one is in flight, and a replayed attempt key returns the
// order it already produced.
func (s *service) Submit(ctx context.Context, input SubmitInput) (orders.Order, error) {
	attemptKey := strings.TrimSpace(input.AttemptKey)
	if attemptKey == "" {
		attemptKey = uuid.NewString()
	}
	ctx = s.logg.WithField(ctx, "attempt_key", attemptKey)

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return orders.Order{}, errSubmitInProgress()
	}
	if s.lastPlaced != nil && s.lastPlaced.AttemptKey == attemptKey {
		placed := *s.lastPlaced
		s.mu.Unlock()
		s.logg.Info(s.logg.WithOrderCode(ctx, placed.OrderCode), "replayed placed order")
		return placed, nil
	}
	s.inFlight = true
	s.reviewLocked(ctx)
	s.transitionLocked(ctx, enums.CheckoutStateValidating)
	active := s.promo
	s.mu.Unlock()

	if placed, ok := s.persistedReplay(ctx, attemptKey); ok {
		s.finish(ctx, enums.CheckoutStatePlaced, &placed)
		return placed, nil
	}

	payload, err := s.prepare(ctx, attemptKey, input, active)
	if err != nil {
		s.metrics.IncRejected(reasonOf(err))
		s.finish(ctx, enums.CheckoutStateReviewing, nil)
		return orders.Order{}, err
	}

	s.mu.Lock()
	s.transitionLocked(ctx, enums.CheckoutStateSubmitting)
	s.mu.Unlock()

	order, err := s.place(ctx, payload)
	if err != nil {
		s.finish(ctx, enums.CheckoutStateFailed, nil)
		return orders.Order{}, err
	}
	s.finish(ctx, enums.CheckoutStatePlaced, &order)
	return order, nil
}

func (s *service) prepare(ctx context.Context, attemptKey string, input SubmitInput, active *promo.Promo) (orders.OrderPayload, error) {
	menu, err := s.menu.Menu(ctx)
	if err != nil {
		return orders.OrderPayload{}, err
	}
	snapshot := s.cart.Snapshot(ctx)
	if err := validateOrder(snapshot, input.Fulfillment, input.PaymentMethod, s.policy, s.now()); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", reasonOf(err)), "checkout rejected")
		return orders.OrderPayload{}, err
	}

	q := s.quote(snapshot, menu, input.Fulfillment, active)
	return orders.OrderPayload{
		AttemptKey:    attemptKey,
		Lines:         orderLines(snapshot, menu),
		Fulfillment:   input.Fulfillment,
		PaymentMethod: input.PaymentMethod,
		PromoCode:     q.PromoCode,
		Subtotal:      q.Subtotal,
		DeliveryFee:   q.DeliveryFee,
		PromoDiscount: q.PromoDiscount,
		GrandTotal:    q.GrandTotal,
	}, nil
}

// place runs detached from the caller's cancellation so a shopper leaving the
// screen does not abort an order the server may already have accepted. A result
// the submitter returns without error is an accepted order even if it arrived
// after the deadline.
func (s *service) place(ctx context.Context, payload orders.OrderPayload) (orders.Order, error) {
	detached := context.WithoutCancel(ctx)
	callCtx, cancel := context.WithTimeout(detached, s.submitTimeout)
	defer cancel()

	credential, ok, err := s.credentials.Current(detached)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "credential unavailable; submitting anonymously")
	}
	if !ok {
		credential = ""
	}

	started := s.now()
	result, err := s.submitter.Submit(callCtx, payload, credential)
	elapsed := s.now().Sub(started)
	if err != nil {
		s.metrics.ObserveSubmit(metrics.OutcomeFailed, elapsed)
		s.logg.Error(ctx, "order submission failed", err)
		return orders.Order{}, submissionError(err)
	}
	s.metrics.ObserveSubmit(metrics.OutcomePlaced, elapsed)

	status := result.Status
	if !status.IsValid() {
		status = enums.OrderStatusPending
	}
	order := orders.Order{
		OrderCode:     result.OrderCode,
		Status:        status,
		Lines:         payload.Lines,
		Fulfillment:   payload.Fulfillment,
		PaymentMethod: payload.PaymentMethod,
		PromoCode:     payload.PromoCode,
		Subtotal:      payload.Subtotal,
		DeliveryFee:   payload.DeliveryFee,
		PromoDiscount: payload.PromoDiscount,
		GrandTotal:    payload.GrandTotal,
		AttemptKey:    payload.AttemptKey,
		CreatedAt:     s.now().UTC(),
	}
	ctx = s.logg.WithOrderCode(detached, order.OrderCode)

	if err := s.cart.RemoveOrdered(ctx, orderedQuantities(payload.Lines)); err != nil {
		s.logg.Error(ctx, "cart not cleared after order placed", err)
	}
	if err := s.lastOrder.Save(ctx, order); err != nil {
		s.logg.Error(ctx, "last order not saved", err)
	}
	if s.contacts != nil && order.Fulfillment.IsDelivery() && order.Fulfillment.Delivery != nil {
		if err := s.contacts.Save(ctx, *order.Fulfillment.Delivery); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "delivery contact not saved")
		}
	}
	s.logg.Info(ctx, "order placed")
	return order, nil
}

// persistedReplay covers a restart between placing an order and the client
// retrying with the same attempt key.
func (s *service) persistedReplay(ctx context.Context, attemptKey string) (orders.Order, bool) {
	last, found, err := s.lastOrder.Last(ctx)
	if err != nil || !found || last.AttemptKey != attemptKey {
		return orders.Order{}, false
	}
	s.logg.Info(s.logg.WithOrderCode(ctx, last.OrderCode), "replayed persisted order")
	return last, true
}

func (s *service) finish(ctx context.Context, state enums.CheckoutState, placed *orders.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if placed != nil {
		s.lastPlaced = placed
		s.promo = nil
	}
	s.transitionLocked(ctx, state)
}

// reviewLocked starts a new attempt after a terminal state.
func (s *service) reviewLocked(ctx context.Context) {
	if s.state == enums.CheckoutStatePlaced || s.state == enums.CheckoutStateFailed {
		s.transitionLocked(ctx, enums.CheckoutStateReviewing)
	}
}

func (s *service) transitionLocked(ctx context.Context, to enums.CheckoutState) {
	if s.state == to {
		return
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"checkout_state": to.String(),
		"previous_state": s.state.String(),
	}), "checkout state changed")
	s.state = to
}

func orderLines(c cart.Cart, menu *catalog.Menu) []orders.OrderLine {
	lines := make([]orders.OrderLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		toppings := make([]string, 0, len(line.Customization.ToppingSelections))
		for _, sel := range line.Customization.ToppingSelections {
			for i := 0; i < sel.Quantity; i++ {
				toppings = append(toppings, sel.ToppingID)
			}
		}
		unit := pricing.UnitPrice(line, menu)
		lines = append(lines, orders.OrderLine{
			LineID:      line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			SizeID:      line.Customization.SizeID,
			ToppingIDs:  toppings,
			Note:        line.Customization.Note,
			Quantity:    line.Quantity,
			UnitPrice:   unit,
			Subtotal:    unit.Times(line.Quantity),
		})
	}
	return lines
}

func orderedQuantities(lines []orders.OrderLine) map[string]int {
	out := make(map[string]int, len(lines))
	for _, line := range lines {
		out[line.LineID] += line.Quantity
	}
	return out
}

func errSubmitInProgress() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "checkout submission already in progress")
}

func submissionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "order submission timed out")
	}
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeSubmission, pkgerrors.CodeUnauthorized, pkgerrors.CodeValidation:
			return err
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "order could not be placed")
}

func reasonOf(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		if reason := typed.Reason(); reason != "" {
			return reason
		}
		return strings.ToLower(string(typed.Code()))
	}
	return "unknown"
}
