// Package session exposes the shopper's stored credential to outbound calls.
// Issuing, decoding and refreshing tokens happen elsewhere.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/brewcart/pkg/kv"
)

// CredentialSource returns the current bearer credential, if any.
type CredentialSource interface {
	Current(ctx context.Context) (string, bool, error)
}

// KVCredentials reads the credential written by the sign-in flow.
type KVCredentials struct {
	kv  kv.Store
	key string
}

func NewKVCredentials(store kv.Store, key string) (*KVCredentials, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if strings.TrimSpace(key) == "" {
		key = kv.KeyUserToken
	}
	return &KVCredentials{kv: store, key: key}, nil
}

func (c *KVCredentials) Current(ctx context.Context) (string, bool, error) {
	raw, found, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return "", false, err
	}
	token := strings.TrimSpace(raw)
	// Older clients stored the token JSON-encoded.
	token = strings.Trim(token, `"`)
	if !found || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Static always returns the same credential; an empty one means signed out.
type Static string

func (s Static) Current(ctx context.Context) (string, bool, error) {
	token := strings.TrimSpace(string(s))
	return token, token != "", nil
}
