package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/brewcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/money"
)

const (
	pathPayByCash     = "/Payment/payment-by-cash"
	pathPayByWallet   = "/Payment/payment-by-wallet"
	pathCustomerOrder = "/Order/get-order-of-customer"
)

// API is the slice of the shop API client used for orders.
type API interface {
	Get(ctx context.Context, path, token string, out any) error
	Post(ctx context.Context, path, token string, body, out any) error
}

// HTTPClient places and lists orders through the shop's payment endpoints.
type HTTPClient struct {
	api API
}

func NewHTTPClient(api API) (*HTTPClient, error) {
	if api == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	return &HTTPClient{api: api}, nil
}

type paymentRequest struct {
	AttemptKey    string                `json:"attemptKey,omitempty"`
	FullName      string                `json:"fullName"`
	PhoneNumber   string                `json:"phoneNumber"`
	Address       string                `json:"address"`
	OrderType     enums.FulfillmentType `json:"orderType"`
	PickupTime    *time.Time            `json:"pickupTime,omitempty"`
	PaymentMethod enums.PaymentMethod   `json:"paymentMethod"`
	PromoCode     string                `json:"promoCode,omitempty"`
	Items         []paymentItem         `json:"items"`
	Subtotal      money.Amount          `json:"subtotal"`
	DeliveryFee   money.Amount          `json:"deliveryFee"`
	Discount      money.Amount          `json:"discount"`
	TotalAmount   money.Amount          `json:"totalAmount"`
}

type paymentItem struct {
	ProductID string       `json:"productId"`
	SizeID    string       `json:"sizeId,omitempty"`
	Toppings  []string     `json:"toppings,omitempty"`
	Note      string       `json:"note,omitempty"`
	Quantity  int          `json:"quantity"`
	Price     money.Amount `json:"price"`
}

type remoteOrder struct {
	OrderCode       string       `json:"orderCode"`
	Status          string       `json:"status"`
	TotalAmount     money.Amount `json:"totalAmount"`
	PickupTime      string       `json:"pickupTime"`
	DeliveryAddress string       `json:"deliveryAddress"`
	PaymentMethod   string       `json:"paymentMethod"`
}

// Submit posts the order to the endpoint matching its payment method.
func (c *HTTPClient) Submit(ctx context.Context, payload OrderPayload, credential string) (SubmitResult, error) {
	path, err := paymentPath(payload.PaymentMethod)
	if err != nil {
		return SubmitResult{}, err
	}

	var out remoteOrder
	if err := c.api.Post(ctx, path, credential, buildPaymentRequest(payload), &out); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			return SubmitResult{}, err
		}
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "order submission failed")
	}
	if strings.TrimSpace(out.OrderCode) == "" {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeSubmission, "order submission returned no order code")
	}
	return SubmitResult{OrderCode: out.OrderCode, Status: parseStatus(out.Status)}, nil
}

// ListCustomerOrders returns the shopper's order history.
func (c *HTTPClient) ListCustomerOrders(ctx context.Context, credential string) ([]OrderSummary, error) {
	var out []remoteOrder
	if err := c.api.Get(ctx, pathCustomerOrder, credential, &out); err != nil {
		return nil, err
	}
	summaries := make([]OrderSummary, 0, len(out))
	for _, o := range out {
		method, _ := enums.ParsePaymentMethod(o.PaymentMethod)
		summaries = append(summaries, OrderSummary{
			OrderCode:       o.OrderCode,
			Status:          parseStatus(o.Status),
			TotalAmount:     o.TotalAmount,
			PickupTime:      o.PickupTime,
			DeliveryAddress: o.DeliveryAddress,
			PaymentMethod:   method,
		})
	}
	return summaries, nil
}

func paymentPath(method enums.PaymentMethod) (string, error) {
	switch method {
	case enums.PaymentMethodCash:
		return pathPayByCash, nil
	case enums.PaymentMethodWallet:
		return pathPayByWallet, nil
	}
	return "", pkgerrors.Validation("payment_method_invalid", fmt.Sprintf("unsupported payment method %q", method))
}

func buildPaymentRequest(p OrderPayload) paymentRequest {
	req := paymentRequest{
		AttemptKey:    p.AttemptKey,
		OrderType:     p.Fulfillment.Type,
		PaymentMethod: p.PaymentMethod,
		PromoCode:     p.PromoCode,
		Items:         make([]paymentItem, 0, len(p.Lines)),
		Subtotal:      p.Subtotal,
		DeliveryFee:   p.DeliveryFee,
		Discount:      p.PromoDiscount,
		TotalAmount:   p.GrandTotal,
	}
	if d := p.Fulfillment.Delivery; d != nil {
		req.FullName = d.RecipientName
		req.PhoneNumber = d.Phone
		req.Address = d.Address
	}
	if pk := p.Fulfillment.Pickup; pk != nil {
		at := pk.ScheduledTime
		req.PickupTime = &at
	}
	for _, line := range p.Lines {
		req.Items = append(req.Items, paymentItem{
			ProductID: line.ProductID,
			SizeID:    line.SizeID,
			Toppings:  line.ToppingIDs,
			Note:      line.Note,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}
	return req
}

func parseStatus(raw string) enums.OrderStatus {
	status, err := enums.ParseOrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return enums.OrderStatusPending
	}
	return status
}
