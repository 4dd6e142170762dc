package catalog

import (
	"context"

	"github.com/angelmondragon/brewcart/pkg/money"
)

// Fetcher is the slice of the shop API client the remote source needs.
type Fetcher interface {
	Get(ctx context.Context, path, token string, out any) error
}

type remoteSize struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	ExtraPrice money.Amount `json:"extraPrice"`
}

type remoteTopping struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Price money.Amount `json:"price"`
}

// RemoteSource loads sizes and toppings from the shop API.
type RemoteSource struct {
	api Fetcher
}

func NewRemoteSource(api Fetcher) *RemoteSource {
	return &RemoteSource{api: api}
}

func (s *RemoteSource) Menu(ctx context.Context) (*Menu, error) {
	var sizes []remoteSize
	if err := s.api.Get(ctx, "/Size", "", &sizes); err != nil {
		return nil, err
	}
	var toppings []remoteTopping
	if err := s.api.Get(ctx, "/Topping", "", &toppings); err != nil {
		return nil, err
	}

	menuSizes := make([]SizeOption, 0, len(sizes))
	for _, size := range sizes {
		if size.ID == "" {
			continue
		}
		menuSizes = append(menuSizes, SizeOption{
			ID:         size.ID,
			Name:       size.Name,
			ExtraPrice: size.ExtraPrice.NonNegative(),
		})
	}
	menuToppings := make([]Topping, 0, len(toppings))
	for _, topping := range toppings {
		if topping.ID == "" {
			continue
		}
		menuToppings = append(menuToppings, Topping{
			ID:        topping.ID,
			Name:      topping.Name,
			UnitPrice: topping.Price.NonNegative(),
		})
	}
	return NewMenu(menuSizes, menuToppings), nil
}
