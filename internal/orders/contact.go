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

// ContactStore remembers the last delivery contact so the next checkout can be prefilled.
type ContactStore struct {
	kv   kv.Store
	key  string
	logg *logger.Logger
}

func NewContactStore(store kv.Store, key string, logg *logger.Logger) (*ContactStore, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(key) == "" {
		key = kv.KeyDeliveryContact
	}
	return &ContactStore{kv: store, key: key, logg: logg}, nil
}

// Save replaces the stored contact with trimmed copies of the given details.
func (s *ContactStore) Save(ctx context.Context, details DeliveryDetails) error {
	details = DeliveryDetails{
		RecipientName: strings.TrimSpace(details.RecipientName),
		Phone:         strings.TrimSpace(details.Phone),
		Address:       strings.TrimSpace(details.Address),
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode delivery contact")
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save delivery contact")
	}
	return nil
}

// Saved returns the stored contact. An unreadable entry is logged and reported as absent.
func (s *ContactStore) Saved(ctx context.Context) (DeliveryDetails, bool, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return DeliveryDetails{}, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "read delivery contact")
	}
	if !found {
		return DeliveryDetails{}, false, nil
	}
	var details DeliveryDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "key", s.key), "stored delivery contact unreadable; ignoring")
		return DeliveryDetails{}, false, nil
	}
	return details, true, nil
}
