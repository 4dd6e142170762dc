// Package pricing derives line and cart totals from cart contents and the menu.
// Every function is pure and total: unknown sizes or toppings contribute zero.
package pricing

import (
	"github.com/angelmondragon/brewcart/internal/cart"
	"github.com/angelmondragon/brewcart/internal/catalog"
	"github.com/angelmondragon/brewcart/pkg/money"
)

// UnitPrice is base + size extra + sum(topping unit price * topping quantity).
func UnitPrice(line cart.LineItem, menu *catalog.Menu) money.Amount {
	price := line.BasePrice
	if size, ok := menu.Size(line.Customization.SizeID); ok {
		price += size.ExtraPrice
	}
	for _, sel := range line.Customization.ToppingSelections {
		if sel.Quantity <= 0 {
			continue
		}
		if topping, ok := menu.Topping(sel.ToppingID); ok {
			price += topping.UnitPrice.Times(sel.Quantity)
		}
	}
	return price
}

// LineSubtotal applies the line quantity once to the unit price.
func LineSubtotal(line cart.LineItem, menu *catalog.Menu) money.Amount {
	return UnitPrice(line, menu).Times(line.Quantity)
}

func CartSubtotal(lines []cart.LineItem, menu *catalog.Menu) money.Amount {
	var total money.Amount
	for _, line := range lines {
		total += LineSubtotal(line, menu)
	}
	return total
}

// LinePrice is the display breakdown for one line.
type LinePrice struct {
	LineID    string       `json:"lineId"`
	UnitPrice money.Amount `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	Subtotal  money.Amount `json:"subtotal"`
}

// CartPrice is the display breakdown for a cart.
type CartPrice struct {
	Lines     []LinePrice  `json:"lines"`
	ItemCount int          `json:"itemCount"`
	Subtotal  money.Amount `json:"subtotal"`
}

// Breakdown prices every line in cart order.
func Breakdown(c cart.Cart, menu *catalog.Menu) CartPrice {
	out := CartPrice{Lines: make([]LinePrice, 0, len(c.Lines))}
	for _, line := range c.Lines {
		unit := UnitPrice(line, menu)
		sub := unit.Times(line.Quantity)
		out.Lines = append(out.Lines, LinePrice{
			LineID:    line.ID,
			UnitPrice: unit,
			Quantity:  line.Quantity,
			Subtotal:  sub,
		})
		out.Subtotal += sub
		out.ItemCount += line.Quantity
	}
	return out
}
