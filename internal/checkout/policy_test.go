package checkout

import (
	"testing"
	"time"

	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/pkg/config"
	"github.com/angelmondragon/brewcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/money"
)

func storeTime(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	loc := DefaultPolicy().Location
	return time.Date(2026, time.March, day, hour, minute, 0, 0, loc)
}

var (
	delivery = orders.Fulfillment{
		Type:     enums.FulfillmentDelivery,
		Delivery: &orders.DeliveryDetails{RecipientName: "Lan", Phone: "0901234567", Address: "12 Ly Thuong Kiet"},
	}
	pickupType = orders.Fulfillment{Type: enums.FulfillmentPickup}
)

func TestDeliveryFeeRule(t *testing.T) {
	policy := DefaultPolicy()
	cases := []struct {
		name        string
		subtotal    money.Amount
		fulfillment orders.Fulfillment
		want        money.Amount
	}{
		{"delivery above threshold", 120000, delivery, 0},
		{"pickup above threshold", 120000, pickupType, 0},
		{"delivery below threshold", 50000, delivery, 15000},
		{"delivery exactly at threshold", 100000, delivery, 15000},
		{"pickup below threshold", 50000, pickupType, 0},
		{"delivery empty cart", 0, delivery, 15000},
	}
	for _, tc := range cases {
		if got := policy.DeliveryFeeFor(tc.subtotal, tc.fulfillment); got != tc.want {
			t.Fatalf("%s: expected fee %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestPolicyFromConfig(t *testing.T) {
	policy := PolicyFromConfig(
		config.CheckoutConfig{DeliveryFee: 20000, FreeDeliveryThreshold: 200000, PickupLeadTime: time.Hour, PickupAdvanceWindow: 48 * time.Hour},
		config.StoreConfig{OpeningHour: 7, ClosingHour: 22, Timezone: "Asia/Ho_Chi_Minh"},
	)
	if policy.DeliveryFee != 20000 || policy.FreeDeliveryThreshold != 200000 || policy.OpeningHour != 7 || policy.LeadTime != time.Hour {
		t.Fatalf("unexpected policy %+v", policy)
	}
	if policy.Location.String() != "Asia/Ho_Chi_Minh" {
		t.Fatalf("unexpected location %v", policy.Location)
	}
}

func TestValidatePickupTime(t *testing.T) {
	policy := DefaultPolicy()
	now := storeTime(t, 14, 11, 0)

	cases := []struct {
		name   string
		at     time.Time
		reason string
	}{
		{"ten minutes ahead today", now.Add(10 * time.Minute), ReasonPickupLeadTime},
		{"forty five minutes ahead today", now.Add(45 * time.Minute), ""},
		{"exactly lead time", now.Add(30 * time.Minute), ""},
		{"in the past", now.Add(-time.Minute), ReasonPickupInPast},
		{"before opening tomorrow", storeTime(t, 15, 9, 30), ReasonPickupOutsideHours},
		{"at closing", storeTime(t, 14, 20, 0), ReasonPickupOutsideHours},
		{"last slot before closing", storeTime(t, 14, 19, 45), ""},
		{"opening tomorrow", storeTime(t, 15, 10, 0), ""},
		{"seven days ahead", now.Add(7 * 24 * time.Hour), ""},
		{"beyond seven days", now.Add(7*24*time.Hour + time.Minute), ReasonPickupTooFarAhead},
	}
	for _, tc := range cases {
		err := policy.ValidatePickupTime(tc.at, now)
		if tc.reason == "" {
			if err != nil {
				t.Fatalf("%s: expected valid, got %v", tc.name, err)
			}
			continue
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Reason() != tc.reason {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.reason, err)
		}
	}
}

func TestValidatePickupTimeChecksHoursBeforeLeadTime(t *testing.T) {
	policy := DefaultPolicy()
	now := storeTime(t, 14, 9, 40)

	err := policy.ValidatePickupTime(storeTime(t, 14, 9, 50), now)
	if typed := pkgerrors.As(err); typed == nil || typed.Reason() != ReasonPickupOutsideHours {
		t.Fatalf("expected outside store hours before opening, got %v", err)
	}
	err = policy.ValidatePickupTime(storeTime(t, 14, 10, 5), now)
	if typed := pkgerrors.As(err); typed == nil || typed.Reason() != ReasonPickupLeadTime {
		t.Fatalf("expected lead time once inside store hours, got %v", err)
	}
}

func TestValidateDelivery(t *testing.T) {
	policy := DefaultPolicy()
	now := storeTime(t, 14, 11, 0)
	cases := []struct {
		name    string
		details *orders.DeliveryDetails
		reason  string
	}{
		{"missing details", nil, ReasonDeliveryDetails},
		{"blank name", &orders.DeliveryDetails{RecipientName: "  ", Phone: "0901234567", Address: "x"}, ReasonRecipientRequired},
		{"short phone", &orders.DeliveryDetails{RecipientName: "Lan", Phone: "090123456", Address: "x"}, ReasonPhoneInvalid},
		{"phone with letters", &orders.DeliveryDetails{RecipientName: "Lan", Phone: "09012345ab", Address: "x"}, ReasonPhoneInvalid},
		{"phone eleven digits", &orders.DeliveryDetails{RecipientName: "Lan", Phone: "09012345678", Address: "x"}, ReasonPhoneInvalid},
		{"blank address", &orders.DeliveryDetails{RecipientName: "Lan", Phone: "0901234567", Address: " "}, ReasonAddressRequired},
		{"valid", &orders.DeliveryDetails{RecipientName: "Lan", Phone: "0901234567", Address: "12 Ly Thuong Kiet"}, ""},
	}
	for _, tc := range cases {
		err := policy.ValidateFulfillment(orders.Fulfillment{Type: enums.FulfillmentDelivery, Delivery: tc.details}, now)
		if tc.reason == "" {
			if err != nil {
				t.Fatalf("%s: expected valid, got %v", tc.name, err)
			}
			continue
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Reason() != tc.reason {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.reason, err)
		}
	}

	if typed := pkgerrors.As(policy.ValidateFulfillment(orders.Fulfillment{Type: "drone"}, now)); typed == nil || typed.Reason() != ReasonFulfillmentInvalid {
		t.Fatalf("expected unknown fulfillment to be rejected, got %v", typed)
	}
	if typed := pkgerrors.As(policy.ValidateFulfillment(pickupType, now)); typed == nil || typed.Reason() != ReasonPickupTimeRequired {
		t.Fatalf("expected pickup without time to be rejected, got %v", typed)
	}
}

func TestDefaultPickupTime(t *testing.T) {
	policy := DefaultPolicy()
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"rounds up to quarter then adds lead", storeTime(t, 14, 11, 7), storeTime(t, 14, 11, 45)},
		{"already on a quarter", storeTime(t, 14, 11, 15), storeTime(t, 14, 11, 45)},
		{"before opening", storeTime(t, 14, 7, 40), storeTime(t, 14, 10, 0)},
		{"after closing", storeTime(t, 14, 19, 40), storeTime(t, 15, 10, 0)},
		{"late night", storeTime(t, 14, 23, 55), storeTime(t, 15, 10, 0)},
	}
	for _, tc := range cases {
		got := policy.DefaultPickupTime(tc.now)
		if !got.Equal(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
		if err := policy.ValidatePickupTime(got, tc.now); err != nil {
			t.Fatalf("%s: default pickup time should validate, got %v", tc.name, err)
		}
	}
}
