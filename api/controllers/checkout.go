package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/brewcart/api/middleware"
	"github.com/angelmondragon/brewcart/api/responses"
	"github.com/angelmondragon/brewcart/api/validators"
	checkoutsvc "github.com/angelmondragon/brewcart/internal/checkout"
	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/pkg/enums"
	"github.com/angelmondragon/brewcart/pkg/logger"
)

type applyPromoRequest struct {
	Code        string             `json:"code" validate:"notblank"`
	Fulfillment orders.Fulfillment `json:"fulfillment"`
}

type quoteRequest struct {
	Fulfillment orders.Fulfillment `json:"fulfillment"`
}

type submitRequest struct {
	AttemptKey    string              `json:"attemptKey,omitempty"`
	Fulfillment   orders.Fulfillment  `json:"fulfillment"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod" validate:"required"`
}

type quoteResponse struct {
	Quote             checkoutsvc.Quote   `json:"quote"`
	State             enums.CheckoutState `json:"state"`
	DefaultPickupTime time.Time           `json:"defaultPickupTime"`
}

type stateResponse struct {
	State enums.CheckoutState `json:"state"`
}

type contactReader interface {
	Saved(ctx context.Context) (orders.DeliveryDetails, bool, error)
}

type contactResponse struct {
	Saved   bool                   `json:"saved"`
	Contact orders.DeliveryDetails `json:"contact"`
}

// CheckoutContact returns the delivery contact of the last delivery order so
// the form can be prefilled. Nothing saved yet is an empty contact, not an error.
func CheckoutContact(contacts contactReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, found, err := contacts.Saved(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contactResponse{Saved: found, Contact: details})
	}
}

func CheckoutApplyPromo(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applyPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.ApplyPromo(r.Context(), payload.Code, payload.Fulfillment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuoteResponse(svc, quote))
	}
}

func CheckoutRemovePromo(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemovePromo(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stateResponse{State: svc.State()})
	}
}

// CheckoutQuote prices the cart for a fulfillment choice without submitting.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), payload.Fulfillment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuoteResponse(svc, quote))
	}
}

// CheckoutSubmit places the order. The attempt key comes from the body or the
// Idempotency-Key header; retries with the same key return the same order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attemptKey := strings.TrimSpace(payload.AttemptKey)
		if attemptKey == "" {
			attemptKey = strings.TrimSpace(r.Header.Get(middleware.AttemptKeyHeader))
		}

		order, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			AttemptKey:    attemptKey,
			Fulfillment:   payload.Fulfillment,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func newQuoteResponse(svc checkoutsvc.Service, quote checkoutsvc.Quote) quoteResponse {
	return quoteResponse{
		Quote:             quote,
		State:             svc.State(),
		DefaultPickupTime: svc.DefaultPickupTime(time.Now()),
	}
}
