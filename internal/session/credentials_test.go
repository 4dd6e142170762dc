package session

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/brewcart/pkg/kv"
)

type failingKV struct {
	kv.Store
}

func (failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("locked")
}

func TestKVCredentials(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	creds, err := NewKVCredentials(backend, "")
	if err != nil {
		t.Fatalf("new credentials: %v", err)
	}

	if _, ok, err := creds.Current(ctx); ok || err != nil {
		t.Fatalf("expected signed out, ok=%v err=%v", ok, err)
	}

	_ = backend.Set(ctx, kv.KeyUserToken, `"abc.def"`)
	token, ok, err := creds.Current(ctx)
	if err != nil || !ok || token != "abc.def" {
		t.Fatalf("expected unquoted token, got %q ok=%v err=%v", token, ok, err)
	}

	_ = backend.Set(ctx, kv.KeyUserToken, "   ")
	if _, ok, _ := creds.Current(ctx); ok {
		t.Fatal("blank token must read as signed out")
	}
}

func TestKVCredentialsPropagatesReadErrors(t *testing.T) {
	creds, _ := NewKVCredentials(failingKV{}, "")
	if _, _, err := creds.Current(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestStaticCredentials(t *testing.T) {
	if token, ok, _ := Static(" tok ").Current(context.Background()); !ok || token != "tok" {
		t.Fatalf("unexpected static token %q ok=%v", token, ok)
	}
	if _, ok, _ := Static("").Current(context.Background()); ok {
		t.Fatal("empty static credential must be signed out")
	}
}
