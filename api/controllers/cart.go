package controllers

import (
	"net/http"

	"github.com/angelmondragon/brewcart/api/responses"
	"github.com/angelmondragon/brewcart/api/validators"
	cartsvc "github.com/angelmondragon/brewcart/internal/cart"
	"github.com/angelmondragon/brewcart/internal/catalog"
	"github.com/angelmondragon/brewcart/internal/pricing"
	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/logger"
)

type cartView struct {
	Cart    cartsvc.Cart      `json:"cart"`
	Pricing pricing.CartPrice `json:"pricing"`
}

type addItemResponse struct {
	LineID string `json:"lineId"`
	cartView
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type updateQuantityResponse struct {
	Outcome cartsvc.UpdateOutcome `json:"outcome"`
	cartView
}

// CartFetch returns the cart with its live pricing breakdown.
func CartFetch(store cartsvc.Store, menu catalog.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := renderCart(r, store, menu)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartAddItem(store cartsvc.Store, menu catalog.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartsvc.AddItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := store.AddItem(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := renderCart(r, store, menu)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addItemResponse{LineID: lineID, cartView: view})
	}
}

// CartUpdateQuantity sets a line's quantity. Quantities below one are not
// applied; the response asks the client to confirm removal instead.
func CartUpdateQuantity(store cartsvc.Store, menu catalog.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.PathParam(r, "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := store.UpdateQuantity(r.Context(), lineID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if outcome == cartsvc.OutcomeNotFound {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
				WithDetails(map[string]any{"lineId": lineID}))
			return
		}

		view, err := renderCart(r, store, menu)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updateQuantityResponse{Outcome: outcome, cartView: view})
	}
}

// CartRemoveItem is idempotent: removing an unknown line still succeeds.
func CartRemoveItem(store cartsvc.Store, menu catalog.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.PathParam(r, "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.RemoveItem(r.Context(), lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := renderCart(r, store, menu)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartClear(store cartsvc.Store, menu catalog.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := renderCart(r, store, menu)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func renderCart(r *http.Request, store cartsvc.Store, source catalog.Source) (cartView, error) {
	menu, err := source.Menu(r.Context())
	if err != nil {
		return cartView{}, err
	}
	snapshot := store.Snapshot(r.Context())
	if snapshot.Lines == nil {
		snapshot.Lines = []cartsvc.LineItem{}
	}
	return cartView{Cart: snapshot, Pricing: pricing.Breakdown(snapshot, menu)}, nil
}
