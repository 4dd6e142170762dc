package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/kv"
	"github.com/angelmondragon/brewcart/pkg/logger"
)

// LastOrderStore keeps the most recently placed order under its own key.
type LastOrderStore struct {
	kv   kv.Store
	key  string
	logg *logger.Logger
}

func NewLastOrderStore(store kv.Store, key string, logg *logger.Logger) (*LastOrderStore, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(key) == "" {
		key = kv.KeyLastOrder
	}
	return &LastOrderStore{kv: store, key: key, logg: logg}, nil
}

// Save replaces the stored order.
func (s *LastOrderStore) Save(ctx context.Context, order Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order")
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save last order")
	}
	return nil
}

// Last returns the stored order. An unreadable entry is logged and reported as absent.
func (s *LastOrderStore) Last(ctx context.Context) (Order, bool, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return Order{}, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "read last order")
	}
	if !found {
		return Order{}, false, nil
	}
	var order Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil || order.OrderCode == "" {
		s.logg.Warn(s.logg.WithField(ctx, "key", s.key), "stored order unreadable; ignoring")
		return Order{}, false, nil
	}
	return order, true, nil
}
