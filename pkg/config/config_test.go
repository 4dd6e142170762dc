package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Storage.Driver != StorageDriverSQLite {
		t.Fatalf("expected sqlite storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.DB.DSN != "brewcart.db" {
		t.Fatalf("expected sqlite path as DSN, got %q", cfg.DB.DSN)
	}
	if cfg.Checkout.DeliveryFee != 15000 || cfg.Checkout.FreeDeliveryThreshold != 100000 {
		t.Fatalf("unexpected fee policy %+v", cfg.Checkout)
	}
	if cfg.Checkout.PickupLeadTime != 30*time.Minute {
		t.Fatalf("expected 30m lead time, got %v", cfg.Checkout.PickupLeadTime)
	}
	if cfg.Checkout.PickupAdvanceWindow != 7*24*time.Hour {
		t.Fatalf("expected 7d advance window, got %v", cfg.Checkout.PickupAdvanceWindow)
	}
	if cfg.Checkout.SubmitTimeout != 10*time.Second {
		t.Fatalf("expected 10s submit timeout, got %v", cfg.Checkout.SubmitTimeout)
	}
	if cfg.Store.OpeningHour != 10 || cfg.Store.ClosingHour != 20 {
		t.Fatalf("unexpected store hours %+v", cfg.Store)
	}
	if cfg.Cart.MaxWriteFailures != 3 {
		t.Fatalf("expected 3 max write failures, got %d", cfg.Cart.MaxWriteFailures)
	}
}

func TestLoad_PromoCodesList(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvPromoCodes, "SUMMER15:percent:0.15,SHIPFREE:freeship")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if len(cfg.Promo.Codes) != 2 || cfg.Promo.Codes[1] != "SHIPFREE:freeship" {
		t.Fatalf("unexpected promo codes %v", cfg.Promo.Codes)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	unsetEnv(t, EnvOrdersBaseURL)

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "Postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected postgres without DSN to fail")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "floppy")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to fail")
	}
}

func TestLoad_RejectsInvertedStoreHours(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStoreOpeningHour, "21")
	t.Setenv(EnvStoreClosingHour, "20")

	if _, err := Load(); err == nil {
		t.Fatal("expected inverted store hours to fail")
	}
}

func TestStoreLocationFallsBackToUTC(t *testing.T) {
	if loc := (StoreConfig{Timezone: "Nowhere/Special"}).Location(); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvOrdersBaseURL, "https://api.example.test")
	for _, key := range []string{EnvStorageDriver, EnvDBDSN, EnvPromoCodes, EnvStoreOpeningHour, EnvStoreClosingHour} {
		unsetEnv(t, key)
	}
}

// unsetEnv clears key for the duration of the test; t.Setenv restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}
