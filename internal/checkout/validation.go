package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/brewcart/internal/cart"
	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/validate"
)

// Validation reasons surfaced in error details.
const (
	ReasonCartEmpty          = "cart_empty"
	ReasonFulfillmentInvalid = "fulfillment_type_invalid"
	ReasonDeliveryDetails    = "delivery_details_required"
	ReasonRecipientRequired  = "recipient_name_required"
	ReasonPhoneInvalid       = "phone_invalid"
	ReasonAddressRequired    = "address_required"
	ReasonPickupTimeRequired = "pickup_time_required"
	ReasonPickupInPast       = "pickup_time_past"
	ReasonPickupLeadTime     = "pickup_lead_time"
	ReasonPickupTooFarAhead  = "pickup_too_far_ahead"
	ReasonPickupOutsideHours = "pickup_outside_store_hours"
	ReasonPaymentMethod      = "payment_method_invalid"
)

func validateOrder(c cart.Cart, fulfillment orders.Fulfillment, method enums.PaymentMethod, policy Policy, now time.Time) error {
	if c.IsEmpty() {
		return pkgerrors.Validation(ReasonCartEmpty, "cart is empty")
	}
	if err := policy.ValidateFulfillment(fulfillment, now); err != nil {
		return err
	}
	if !method.IsValid() {
		return pkgerrors.Validation(ReasonPaymentMethod, fmt.Sprintf("unsupported payment method %q", method))
	}
	return nil
}

// ValidateFulfillment checks delivery contact details or the pickup schedule.
func (p Policy) ValidateFulfillment(f orders.Fulfillment, now time.Time) error {
	switch f.Type {
	case enums.FulfillmentDelivery:
		return validateDelivery(f.Delivery)
	case enums.FulfillmentPickup:
		if f.Pickup == nil || f.Pickup.ScheduledTime.IsZero() {
			return pkgerrors.Validation(ReasonPickupTimeRequired, "pickup time is required")
		}
		return p.ValidatePickupTime(f.Pickup.ScheduledTime, now)
	}
	return pkgerrors.Validation(ReasonFulfillmentInvalid, "fulfillment must be delivery or pickup")
}

func validateDelivery(d *orders.DeliveryDetails) error {
	if d == nil {
		return pkgerrors.Validation(ReasonDeliveryDetails, "delivery details are required")
	}
	if strings.TrimSpace(d.RecipientName) == "" {
		return pkgerrors.Validation(ReasonRecipientRequired, "recipient name is required")
	}
	if !validate.IsPhone(strings.TrimSpace(d.Phone)) {
		return pkgerrors.Validation(ReasonPhoneInvalid, "phone number must be exactly 10 digits")
	}
	if strings.TrimSpace(d.Address) == "" {
		return pkgerrors.Validation(ReasonAddressRequired, "delivery address is required")
	}
	return nil
}

// ValidatePickupTime enforces the pickup window relative to now. Store hours
// are checked before the lead time, then the advance window.
func (p Policy) ValidatePickupTime(at, now time.Time) error {
	if at.Before(now) {
		return pkgerrors.Validation(ReasonPickupInPast, "pickup time is in the past")
	}

	loc := p.location()
	local, localNow := at.In(loc), now.In(loc)
	if local.Hour() < p.OpeningHour || local.Hour() >= p.ClosingHour {
		return pkgerrors.Validation(ReasonPickupOutsideHours,
			fmt.Sprintf("pickup time must be between %02d:00 and %02d:00", p.OpeningHour, p.ClosingHour))
	}
	if sameDay(local, localNow) && at.Sub(now) < p.LeadTime {
		return pkgerrors.Validation(ReasonPickupLeadTime,
			fmt.Sprintf("pickup time must be at least %s from now", formatDuration(p.LeadTime)))
	}
	if p.AdvanceWindow > 0 && at.Sub(now) > p.AdvanceWindow {
		return pkgerrors.Validation(ReasonPickupTooFarAhead,
			fmt.Sprintf("pickup time must be within %s", formatDuration(p.AdvanceWindow)))
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatDuration(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
