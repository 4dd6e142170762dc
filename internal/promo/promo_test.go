package promo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
)

var now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestLookupIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry(DefaultPromos()...)

	for _, code := range []string{"WELCOME10", "welcome10", " Welcome10 "} {
		p, err := reg.Lookup(context.Background(), code, now)
		if err != nil {
			t.Fatalf("lookup %q: %v", code, err)
		}
		if p.Effect != enums.PromoEffectPercentOff {
			t.Fatalf("unexpected effect %s", p.Effect)
		}
	}
}

func TestLookupRejectsUnknownInactiveExpired(t *testing.T) {
	reg := NewRegistry(
		Promo{Code: "OFF", Effect: enums.PromoEffectWaiveDeliveryFee, Active: false},
		Promo{Code: "OLD", Effect: enums.PromoEffectWaiveDeliveryFee, Active: true, ExpiresAt: now.Add(-time.Minute)},
	)

	for _, code := range []string{"NOPE", "OFF", "OLD"} {
		if _, err := reg.Lookup(context.Background(), code, now); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidPromo) {
			t.Fatalf("%s: expected invalid promo, got %v", code, err)
		}
	}
	if _, err := reg.Lookup(context.Background(), "  ", now); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank code, got %v", err)
	}
}

func TestEvaluatePercentOff(t *testing.T) {
	p := DefaultPromos()[0]

	if got := p.Evaluate(100000, 15000); got.Discount != 10000 || got.Notice != "" {
		t.Fatalf("expected 10000 discount, got %+v", got)
	}
	// 10% of 12345 is 1234.5 which rounds half away from zero.
	if got := p.Evaluate(12345, 0); got.Discount != 1235 {
		t.Fatalf("expected 1235, got %d", got.Discount)
	}
}

func TestEvaluateWaiveDeliveryFee(t *testing.T) {
	p := DefaultPromos()[1]

	if got := p.Evaluate(50000, 15000); got.Discount != 15000 {
		t.Fatalf("expected fee waived, got %+v", got)
	}
	got := p.Evaluate(150000, 0)
	if got.Discount != 0 || got.Notice != NoticeAlreadyFree {
		t.Fatalf("expected already free notice, got %+v", got)
	}
}

func TestParseDefinitions(t *testing.T) {
	promos, err := ParseDefinitions([]string{"summer15:percent:0.15", "SHIPFREE:freeship:2026-03-14", ""})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(promos) != 2 {
		t.Fatalf("expected 2 promos, got %d", len(promos))
	}
	if promos[0].Code != "SUMMER15" || !promos[0].Fraction.Equal(decimal.RequireFromString("0.15")) {
		t.Fatalf("unexpected percent promo %+v", promos[0])
	}

	shipFree := promos[1]
	if !shipFree.IsValid(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("expected code to be honored through its last day")
	}
	if shipFree.IsValid(time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)) {
		t.Fatal("expected code to expire after its last day")
	}
}

func TestParseDefinitionsRejectsMalformed(t *testing.T) {
	for _, def := range []string{
		"JUSTCODE",
		":percent:0.1",
		"X:percent",
		"X:percent:abc",
		"X:percent:1.5",
		"X:percent:0",
		"X:bogo",
		"X:freeship:tomorrow",
		"X:freeship:2026-01-01:extra",
	} {
		if _, err := ParseDefinitions([]string{def}); err == nil {
			t.Fatalf("expected %q to be rejected", def)
		}
	}
}

func TestRegisterOverridesDefaults(t *testing.T) {
	reg := NewRegistry(DefaultPromos()...)
	reg.Register(Promo{Code: "welcome10", Effect: enums.PromoEffectPercentOff, Fraction: decimal.RequireFromString("0.2"), Active: true})

	p, err := reg.Lookup(context.Background(), "WELCOME10", now)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := p.Evaluate(100000, 0); got.Discount != 20000 {
		t.Fatalf("expected override to apply, got %d", got.Discount)
	}
}
