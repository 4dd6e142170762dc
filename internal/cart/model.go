package cart

import "github.com/angelmondragon/brewcart/pkg/money"

// MaxNoteLength bounds the free-text note on a line, counted in characters.
const MaxNoteLength = 100

// ToppingSelection is one topping and how many portions of it were chosen.
type ToppingSelection struct {
	ToppingID string `json:"toppingId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// Customization captures the size, toppings and note attached to a line.
type Customization struct {
	SizeID            string             `json:"sizeId,omitempty"`
	ToppingSelections []ToppingSelection `json:"toppingSelections,omitempty" validate:"dive"`
	Note              string             `json:"note,omitempty" validate:"max=100"`
}

// LineItem is one product configuration and quantity within a cart.
type LineItem struct {
	ID            string        `json:"id" validate:"required"`
	ProductID     string        `json:"productId" validate:"required"`
	ProductName   string        `json:"productName,omitempty"`
	BasePrice     money.Amount  `json:"basePrice" validate:"gte=0"`
	Quantity      int           `json:"quantity" validate:"min=1"`
	Customization Customization `json:"customization"`
}

// Cart is the shopper's line items in insertion order. Totals are never stored.
type Cart struct {
	ID      string     `json:"id"`
	OwnerID string     `json:"ownerId"`
	Lines   []LineItem `json:"lines"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line with the given id.
func (c Cart) Line(id string) (LineItem, bool) {
	if idx := c.indexOf(id); idx >= 0 {
		return c.Lines[idx], true
	}
	return LineItem{}, false
}

// ItemCount sums line quantities.
func (c Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

func (c Cart) indexOf(id string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := Cart{ID: c.ID, OwnerID: c.OwnerID}
	if len(c.Lines) == 0 {
		return out
	}
	out.Lines = make([]LineItem, len(c.Lines))
	for i, line := range c.Lines {
		out.Lines[i] = line.clone()
	}
	return out
}

func (l LineItem) clone() LineItem {
	out := l
	if l.Customization.ToppingSelections != nil {
		out.Customization.ToppingSelections = append([]ToppingSelection(nil), l.Customization.ToppingSelections...)
	}
	return out
}

// toppingCounts folds the selections into a multiset keyed by topping id.
func (c Customization) toppingCounts() map[string]int {
	counts := make(map[string]int, len(c.ToppingSelections))
	for _, sel := range c.ToppingSelections {
		if sel.Quantity <= 0 {
			continue
		}
		counts[sel.ToppingID] += sel.Quantity
	}
	return counts
}

// sameSelection reports whether two customizations describe the same drink.
// The note is not part of the identity.
func (c Customization) sameSelection(other Customization) bool {
	if c.SizeID != other.SizeID {
		return false
	}
	a, b := c.toppingCounts(), other.toppingCounts()
	if len(a) != len(b) {
		return false
	}
	for id, qty := range a {
		if b[id] != qty {
			return false
		}
	}
	return true
}
