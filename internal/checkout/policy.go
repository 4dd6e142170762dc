package checkout

import (
	"time"

	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/pkg/config"
	"github.com/angelmondragon/brewcart/pkg/money"
)

const quarterHour = 15 * time.Minute

// Policy holds the shop's fee and pickup scheduling rules.
type Policy struct {
	DeliveryFee           money.Amount
	FreeDeliveryThreshold money.Amount
	OpeningHour           int
	ClosingHour           int
	Location              *time.Location
	LeadTime              time.Duration
	AdvanceWindow         time.Duration
}

// PolicyFromConfig builds the policy from loaded configuration.
func PolicyFromConfig(checkout config.CheckoutConfig, store config.StoreConfig) Policy {
	return Policy{
		DeliveryFee:           money.Amount(checkout.DeliveryFee),
		FreeDeliveryThreshold: money.Amount(checkout.FreeDeliveryThreshold),
		OpeningHour:           store.OpeningHour,
		ClosingHour:           store.ClosingHour,
		Location:              store.Location(),
		LeadTime:              checkout.PickupLeadTime,
		AdvanceWindow:         checkout.PickupAdvanceWindow,
	}
}

// DefaultPolicy mirrors the shop's standing rules.
func DefaultPolicy() Policy {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		loc = time.UTC
	}
	return Policy{
		DeliveryFee:           15000,
		FreeDeliveryThreshold: 100000,
		OpeningHour:           10,
		ClosingHour:           20,
		Location:              loc,
		LeadTime:              30 * time.Minute,
		AdvanceWindow:         7 * 24 * time.Hour,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// DeliveryFeeFor is zero for pickup and for subtotals above the threshold.
func (p Policy) DeliveryFeeFor(subtotal money.Amount, fulfillment orders.Fulfillment) money.Amount {
	if !fulfillment.IsDelivery() {
		return money.Zero
	}
	if subtotal > p.FreeDeliveryThreshold {
		return money.Zero
	}
	return p.DeliveryFee
}

// DefaultPickupTime rounds now up to the next quarter hour, adds the lead time
// and moves the result into opening hours.
func (p Policy) DefaultPickupTime(now time.Time) time.Time {
	local := now.In(p.location()).Truncate(time.Minute)
	if rem := time.Duration(local.Minute()%15) * time.Minute; rem > 0 {
		local = local.Add(quarterHour - rem)
	}
	local = local.Add(p.LeadTime)

	switch {
	case local.Hour() < p.OpeningHour:
		return p.openingOn(local)
	case local.Hour() >= p.ClosingHour:
		return p.openingOn(local.AddDate(0, 0, 1))
	}
	return local
}

func (p Policy) openingOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), p.OpeningHour, 0, 0, 0, p.location())
}
