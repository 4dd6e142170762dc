package catalog

import "github.com/angelmondragon/brewcart/pkg/money"

// Topping is an add-on priced per unit.
type Topping struct {
	ID        string       `json:"id" validate:"required"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unitPrice" validate:"gte=0"`
}

// SizeOption adds a fixed surcharge to the base price.
type SizeOption struct {
	ID         string       `json:"id" validate:"required"`
	Name       string       `json:"name"`
	ExtraPrice money.Amount `json:"extraPrice" validate:"gte=0"`
}

// Menu is an immutable lookup of the sizes and toppings offered by the shop.
// A nil Menu behaves like an empty one.
type Menu struct {
	sizes    []SizeOption
	toppings []Topping
	sizeByID map[string]SizeOption
	topByID  map[string]Topping
}

// NewMenu indexes sizes and toppings by id; a later duplicate id wins.
func NewMenu(sizes []SizeOption, toppings []Topping) *Menu {
	m := &Menu{
		sizes:    append([]SizeOption(nil), sizes...),
		toppings: append([]Topping(nil), toppings...),
		sizeByID: make(map[string]SizeOption, len(sizes)),
		topByID:  make(map[string]Topping, len(toppings)),
	}
	for _, size := range sizes {
		m.sizeByID[size.ID] = size
	}
	for _, topping := range toppings {
		m.topByID[topping.ID] = topping
	}
	return m
}

func (m *Menu) Size(id string) (SizeOption, bool) {
	if m == nil {
		return SizeOption{}, false
	}
	size, ok := m.sizeByID[id]
	return size, ok
}

func (m *Menu) Topping(id string) (Topping, bool) {
	if m == nil {
		return Topping{}, false
	}
	topping, ok := m.topByID[id]
	return topping, ok
}

// Sizes returns a copy of the sizes in catalog order.
func (m *Menu) Sizes() []SizeOption {
	if m == nil {
		return nil
	}
	return append([]SizeOption(nil), m.sizes...)
}

// Toppings returns a copy of the toppings in catalog order.
func (m *Menu) Toppings() []Topping {
	if m == nil {
		return nil
	}
	return append([]Topping(nil), m.toppings...)
}
