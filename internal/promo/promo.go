package promo

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewcart/pkg/enums"
	"github.com/angelmondragon/brewcart/pkg/money"
)

// NoticeAlreadyFree is reported when a fee waiver meets a fee that is already zero.
const NoticeAlreadyFree = "already free"

// Promo is a code that triggers a discount or fee-waiver rule.
type Promo struct {
	Code   string            `json:"code"`
	Effect enums.PromoEffect `json:"effect"`
	// Fraction is the share taken off the subtotal for PercentOff promos.
	Fraction  decimal.Decimal `json:"fraction"`
	Active    bool            `json:"active"`
	ExpiresAt time.Time       `json:"expiresAt,omitempty"`
}

// IsValid reports whether the promo is active and not expired.
func (p Promo) IsValid(now time.Time) bool {
	if !p.Active {
		return false
	}
	if !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt) {
		return false
	}
	return true
}

// Outcome is the effect of a promo on one quote.
type Outcome struct {
	Discount money.Amount `json:"discount"`
	Notice   string       `json:"notice,omitempty"`
}

// Evaluate computes the discount against the current subtotal and delivery fee.
func (p Promo) Evaluate(subtotal, deliveryFee money.Amount) Outcome {
	switch p.Effect {
	case enums.PromoEffectPercentOff:
		return Outcome{Discount: subtotal.Fraction(p.Fraction).NonNegative()}
	case enums.PromoEffectWaiveDeliveryFee:
		if deliveryFee <= 0 {
			return Outcome{Notice: NoticeAlreadyFree}
		}
		return Outcome{Discount: deliveryFee}
	}
	return Outcome{}
}
