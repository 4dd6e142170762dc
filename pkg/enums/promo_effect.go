package enums

import "fmt"

// PromoEffect names the rule a promo code triggers.
type PromoEffect string

const (
	PromoEffectPercentOff       PromoEffect = "percent_off"
	PromoEffectWaiveDeliveryFee PromoEffect = "waive_delivery_fee"
)

var validPromoEffects = []PromoEffect{
	PromoEffectPercentOff,
	PromoEffectWaiveDeliveryFee,
}

// String implements fmt.Stringer.
func (e PromoEffect) String() string {
	return string(e)
}

// IsValid reports whether the value is a known PromoEffect.
func (e PromoEffect) IsValid() bool {
	for _, candidate := range validPromoEffects {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParsePromoEffect converts raw input into a PromoEffect.
func ParsePromoEffect(value string) (PromoEffect, error) {
	for _, candidate := range validPromoEffects {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo effect %q", value)
}
