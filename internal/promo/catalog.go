package promo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
)

const expiryLayout = "2006-01-02"

// Catalog resolves promo codes.
type Catalog interface {
	Lookup(ctx context.Context, code string, now time.Time) (Promo, error)
}

// Registry is an in-memory catalog keyed by upper-cased code.
type Registry struct {
	mu     sync.RWMutex
	promos map[string]Promo
}

func NewRegistry(promos ...Promo) *Registry {
	r := &Registry{promos: make(map[string]Promo, len(promos))}
	for _, p := range promos {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a promo.
func (r *Registry) Register(p Promo) {
	p.Code = normalizeCode(p.Code)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promos[p.Code] = p
}

// Lookup matches code case-insensitively. Unknown, inactive and expired codes
// are all invalid promo errors.
func (r *Registry) Lookup(ctx context.Context, code string, now time.Time) (Promo, error) {
	if err := ctx.Err(); err != nil {
		return Promo{}, err
	}
	normalized := normalizeCode(code)
	if normalized == "" {
		return Promo{}, pkgerrors.Validation("promo_code_required", "promo code is required")
	}

	r.mu.RLock()
	p, ok := r.promos[normalized]
	r.mu.RUnlock()

	if !ok || !p.IsValid(now) {
		return Promo{}, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code is invalid or expired").
			WithDetails(map[string]any{"code": normalized})
	}
	return p, nil
}

// DefaultPromos are the codes the shop has always honored.
func DefaultPromos() []Promo {
	return []Promo{
		{Code: "WELCOME10", Effect: enums.PromoEffectPercentOff, Fraction: decimal.RequireFromString("0.10"), Active: true},
		{Code: "FREESHIP", Effect: enums.PromoEffectWaiveDeliveryFee, Active: true},
	}
}

// ParseDefinitions reads promo definitions of the form
// CODE:percent:0.15[:YYYY-MM-DD] or CODE:freeship[:YYYY-MM-DD].
// The optional date is the last day the code is honored, in UTC.
func ParseDefinitions(defs []string) ([]Promo, error) {
	out := make([]Promo, 0, len(defs))
	for _, def := range defs {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		p, err := parseDefinition(def)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseDefinition(def string) (Promo, error) {
	parts := strings.Split(def, ":")
	if len(parts) < 2 {
		return Promo{}, fmt.Errorf("promo definition %q: expected CODE:kind", def)
	}
	code := normalizeCode(parts[0])
	if code == "" {
		return Promo{}, fmt.Errorf("promo definition %q: code is empty", def)
	}

	p := Promo{Code: code, Active: true}
	rest := parts[2:]
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "percent":
		if len(rest) == 0 {
			return Promo{}, fmt.Errorf("promo definition %q: percent requires a fraction", def)
		}
		fraction, err := decimal.NewFromString(strings.TrimSpace(rest[0]))
		if err != nil {
			return Promo{}, fmt.Errorf("promo definition %q: %w", def, err)
		}
		if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
			return Promo{}, fmt.Errorf("promo definition %q: fraction must be in (0, 1]", def)
		}
		p.Effect = enums.PromoEffectPercentOff
		p.Fraction = fraction
		rest = rest[1:]
	case "freeship":
		p.Effect = enums.PromoEffectWaiveDeliveryFee
	default:
		return Promo{}, fmt.Errorf("promo definition %q: unknown kind %q", def, parts[1])
	}

	switch len(rest) {
	case 0:
	case 1:
		day, err := time.Parse(expiryLayout, strings.TrimSpace(rest[0]))
		if err != nil {
			return Promo{}, fmt.Errorf("promo definition %q: %w", def, err)
		}
		p.ExpiresAt = day.Add(24*time.Hour - time.Nanosecond)
	default:
		return Promo{}, fmt.Errorf("promo definition %q: too many fields", def)
	}
	return p, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
