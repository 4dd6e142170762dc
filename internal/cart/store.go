package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/kv"
	"github.com/angelmondragon/brewcart/pkg/logger"
	"github.com/angelmondragon/brewcart/pkg/money"
	"github.com/angelmondragon/brewcart/pkg/validate"
)

const defaultMaxWriteFailures = 3

// UpdateOutcome reports what UpdateQuantity did.
type UpdateOutcome string

const (
	OutcomeUpdated        UpdateOutcome = "updated"
	OutcomeRemovalPending UpdateOutcome = "removal_pending"
	OutcomeNotFound       UpdateOutcome = "not_found"
)

// Store owns the shopper's cart and persists a full snapshot after every mutation.
// A mutation that returns a persistence error has been rolled back in memory,
// so the caller may retry it.
type Store interface {
	Load(ctx context.Context) Cart
	Snapshot(ctx context.Context) Cart
	AddItem(ctx context.Context, input AddItemInput) (string, error)
	UpdateQuantity(ctx context.Context, lineID string, quantity int) (UpdateOutcome, error)
	RemoveItem(ctx context.Context, lineID string) error
	Clear(ctx context.Context) error
	RemoveOrdered(ctx context.Context, ordered map[string]int) error
}

type persistFailureRecorder interface {
	IncPersistFailure()
}

// StoreParams wires the cart store.
type StoreParams struct {
	KV      kv.Store
	Logger  *logger.Logger
	Metrics persistFailureRecorder
	// Key is the storage key for the snapshot; defaults to kv.KeyCart.
	Key     string
	OwnerID string
	// MaxWriteFailures is how many consecutive failed writes are tolerated
	// before mutations report a persistence error.
	MaxWriteFailures int
	NewID            func() string
}

// AddItemInput describes a product configuration to add.
type AddItemInput struct {
	ProductID     string        `json:"productId" validate:"notblank"`
	ProductName   string        `json:"productName"`
	BasePrice     money.Amount  `json:"basePrice" validate:"gte=0"`
	Quantity      int           `json:"quantity" validate:"min=1"`
	Customization Customization `json:"customization"`
}

type store struct {
	mu sync.Mutex

	kv               kv.Store
	logg             *logger.Logger
	metrics          persistFailureRecorder
	key              string
	ownerID          string
	maxWriteFailures int
	newID            func() string

	loaded        bool
	cart          Cart
	writeFailures int
}

// NewStore builds a cart store over the provided key-value backend.
func NewStore(params StoreParams) (Store, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := strings.TrimSpace(params.Key)
	if key == "" {
		key = kv.KeyCart
	}
	maxFailures := params.MaxWriteFailures
	if maxFailures <= 0 {
		maxFailures = defaultMaxWriteFailures
	}
	newID := params.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &store{
		kv:               params.KV,
		logg:             params.Logger,
		metrics:          params.Metrics,
		key:              key,
		ownerID:          params.OwnerID,
		maxWriteFailures: maxFailures,
		newID:            newID,
	}, nil
}

// Load reads the persisted cart once. Later calls return the in-memory state.
func (s *store) Load(ctx context.Context) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.cart.clone()
}

func (s *store) Snapshot(ctx context.Context) Cart {
	return s.Load(ctx)
}

func (s *store) AddItem(ctx context.Context, input AddItemInput) (string, error) {
	if err := validateAddItem(input); err != nil {
		return "", err
	}

	custom := normalizeCustomization(input.Customization)
	productID := strings.TrimSpace(input.ProductID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	before := s.cart.clone()

	for i := range s.cart.Lines {
		line := &s.cart.Lines[i]
		if line.ProductID == productID && line.Customization.sameSelection(custom) {
			line.Quantity += input.Quantity
			ctx = s.logg.WithField(ctx, "line_id", line.ID)
			s.logg.Debug(ctx, "merged item into existing line")
			return line.ID, s.persist(ctx, before)
		}
	}

	line := LineItem{
		ID:            s.newID(),
		ProductID:     productID,
		ProductName:   strings.TrimSpace(input.ProductName),
		BasePrice:     input.BasePrice,
		Quantity:      input.Quantity,
		Customization: custom,
	}
	s.cart.Lines = append(s.cart.Lines, line)
	ctx = s.logg.WithField(ctx, "line_id", line.ID)
	s.logg.Debug(ctx, "added cart line")
	if err := s.persist(ctx, before); err != nil {
		return "", err
	}
	return line.ID, nil
}

// UpdateQuantity sets a line's quantity. A quantity below one never removes
// the line; it reports OutcomeRemovalPending so the caller can confirm.
func (s *store) UpdateQuantity(ctx context.Context, lineID string, quantity int) (UpdateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	idx := s.cart.indexOf(lineID)
	if idx < 0 {
		return OutcomeNotFound, nil
	}
	if quantity < 1 {
		return OutcomeRemovalPending, nil
	}
	if s.cart.Lines[idx].Quantity == quantity {
		return OutcomeUpdated, nil
	}
	before := s.cart.clone()
	s.cart.Lines[idx].Quantity = quantity
	return OutcomeUpdated, s.persist(s.logg.WithField(ctx, "line_id", lineID), before)
}

func (s *store) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	idx := s.cart.indexOf(lineID)
	if idx < 0 {
		return nil
	}
	before := s.cart.clone()
	s.cart.Lines = append(s.cart.Lines[:idx], s.cart.Lines[idx+1:]...)
	return s.persist(s.logg.WithField(ctx, "line_id", lineID), before)
}

func (s *store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	before := s.cart.clone()
	s.cart.Lines = nil
	return s.persist(ctx, before)
}

// RemoveOrdered takes placed quantities out of the cart by line id. Quantity
// added to a line after the order was priced stays in the cart, as do lines
// the order never saw.
func (s *store) RemoveOrdered(ctx context.Context, ordered map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	before := s.cart.clone()
	var kept []LineItem
	changed := false
	for _, line := range s.cart.Lines {
		qty, ok := ordered[line.ID]
		if !ok {
			kept = append(kept, line)
			continue
		}
		changed = true
		if line.Quantity > qty {
			line.Quantity -= qty
			kept = append(kept, line)
		}
	}
	if !changed {
		return nil
	}
	s.cart.Lines = kept
	if len(kept) > 0 {
		s.logg.Debug(s.logg.WithField(ctx, "remaining_lines", len(kept)), "cart kept lines added during checkout")
	}
	return s.persist(ctx, before)
}

// ensureLoaded must be called with s.mu held.
func (s *store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.cart = s.read(ctx)
}

func (s *store) read(ctx context.Context) Cart {
	empty := Cart{ID: s.newID(), OwnerID: s.ownerID}

	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart read failed; starting empty")
		return empty
	}
	if !found || strings.TrimSpace(raw) == "" {
		return empty
	}

	cart, err := decode(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "persisted cart rejected; starting empty")
		return empty
	}
	if cart.OwnerID == "" {
		cart.OwnerID = s.ownerID
	}
	s.logg.Debug(s.logg.WithCartID(ctx, cart.ID), "cart loaded")
	return cart
}

// persist writes the full snapshot. It must be called with s.mu held. When the
// failure limit is reached the cart is restored to before.
func (s *store) persist(ctx context.Context, before Cart) error {
	ctx = s.logg.WithCartID(ctx, s.cart.ID)

	raw, err := encode(s.cart)
	if err == nil {
		err = s.kv.Set(ctx, s.key, raw)
	}
	if err == nil {
		s.writeFailures = 0
		return nil
	}

	s.writeFailures++
	if s.metrics != nil {
		s.metrics.IncPersistFailure()
	}
	s.logg.Error(s.logg.WithField(ctx, "consecutive_failures", s.writeFailures), "cart persist failed", err)
	if s.writeFailures >= s.maxWriteFailures {
		s.cart = before
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "cart could not be saved")
	}
	return nil
}

func validateAddItem(input AddItemInput) error {
	if input.Quantity < 1 {
		return pkgerrors.Validation("quantity_below_one", "quantity must be at least 1")
	}
	if utf8.RuneCountInString(input.Customization.Note) > MaxNoteLength {
		return pkgerrors.Validation("note_too_long", fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
	}
	return validate.Struct(input)
}

func normalizeCustomization(c Customization) Customization {
	out := Customization{
		SizeID: strings.TrimSpace(c.SizeID),
		Note:   c.Note,
	}
	if len(c.ToppingSelections) > 0 {
		out.ToppingSelections = append([]ToppingSelection(nil), c.ToppingSelections...)
	}
	return out
}
