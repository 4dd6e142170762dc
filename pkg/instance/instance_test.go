package instance

import "testing"

func TestGetIDPrefersEnv(t *testing.T) {
	t.Setenv("BREWCART_INSTANCE_ID", "phone-7")
	if got := GetID(); got != "phone-7" {
		t.Fatalf("expected env instance id, got %q", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv("BREWCART_INSTANCE_ID", "")
	if got := GetID(); got == "" {
		t.Fatal("expected a non-empty fallback id")
	}
}
