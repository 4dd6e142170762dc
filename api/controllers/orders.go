package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/brewcart/api/responses"
	"github.com/angelmondragon/brewcart/api/validators"
	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/internal/session"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/logger"
)

type lastOrderReader interface {
	Last(ctx context.Context) (orders.Order, bool, error)
}

type orderHistory interface {
	ListCustomerOrders(ctx context.Context, credential string) ([]orders.OrderSummary, error)
}

// OrdersLast returns the most recently placed order kept on this device.
func OrdersLast(store lastOrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, found, err := store.Last(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no order placed yet"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersList proxies the shopper's order history from the shop API.
func OrdersList(history orderHistory, credentials session.CredentialSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		credential, ok, err := credentials.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credential unavailable"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view order history"))
			return
		}

		list, err := history.ListCustomerOrders(r.Context(), credential)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(list) > limit {
			list = list[:limit]
		}
		responses.WriteSuccess(w, list)
	}
}
