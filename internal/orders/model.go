package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/brewcart/pkg/enums"
	"github.com/angelmondragon/brewcart/pkg/money"
)

// DeliveryDetails is where and to whom a delivery goes.
type DeliveryDetails struct {
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// PickupDetails is when the shopper collects the order in store.
type PickupDetails struct {
	ScheduledTime time.Time `json:"scheduledTime"`
}

// Fulfillment is either a delivery or a pickup; only the matching detail is set.
type Fulfillment struct {
	Type     enums.FulfillmentType `json:"type"`
	Delivery *DeliveryDetails      `json:"delivery,omitempty"`
	Pickup   *PickupDetails        `json:"pickup,omitempty"`
}

func (f Fulfillment) IsDelivery() bool {
	return f.Type == enums.FulfillmentDelivery
}

func (f Fulfillment) IsPickup() bool {
	return f.Type == enums.FulfillmentPickup
}

// OrderLine is a priced copy of a cart line at submission time.
type OrderLine struct {
	LineID      string       `json:"lineId"`
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName,omitempty"`
	SizeID      string       `json:"sizeId,omitempty"`
	ToppingIDs  []string     `json:"toppingIds,omitempty"`
	Note        string       `json:"note,omitempty"`
	Quantity    int          `json:"quantity"`
	UnitPrice   money.Amount `json:"unitPrice"`
	Subtotal    money.Amount `json:"subtotal"`
}

// Order is a placed order as the shopper sees it.
type Order struct {
	OrderCode     string              `json:"orderCode"`
	Status        enums.OrderStatus   `json:"status"`
	Lines         []OrderLine         `json:"lines"`
	Fulfillment   Fulfillment         `json:"fulfillment"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PromoCode     string              `json:"promoCode,omitempty"`
	Subtotal      money.Amount        `json:"subtotal"`
	DeliveryFee   money.Amount        `json:"deliveryFee"`
	PromoDiscount money.Amount        `json:"promoDiscount"`
	GrandTotal    money.Amount        `json:"grandTotal"`
	AttemptKey    string              `json:"attemptKey,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// OrderPayload is what is handed to the order-submission collaborator.
type OrderPayload struct {
	AttemptKey    string
	Lines         []OrderLine
	Fulfillment   Fulfillment
	PaymentMethod enums.PaymentMethod
	PromoCode     string
	Subtotal      money.Amount
	DeliveryFee   money.Amount
	PromoDiscount money.Amount
	GrandTotal    money.Amount
}

// SubmitResult is the server's acknowledgement of an order.
type SubmitResult struct {
	OrderCode string
	Status    enums.OrderStatus
}

// Submitter places orders with the remote order system.
type Submitter interface {
	Submit(ctx context.Context, payload OrderPayload, credential string) (SubmitResult, error)
}

// OrderSummary is one entry of the shopper's order history.
type OrderSummary struct {
	OrderCode       string              `json:"orderCode"`
	Status          enums.OrderStatus   `json:"status"`
	TotalAmount     money.Amount        `json:"totalAmount"`
	PickupTime      string              `json:"pickupTime,omitempty"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod,omitempty"`
}
