package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/api/validators"
	cartstore "github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/products"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

type cartResponse struct {
	Lines    []cartstore.Line `json:"lines"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	Count    int              `json:"count"`
}

func newCartResponse(store *cartstore.Store) cartResponse {
	return cartResponse{
		Lines:    store.Lines(),
		Subtotal: store.Subtotal(),
		Count:    store.Len(),
	}
}

// CartFetch returns the register's in-progress sale.
func CartFetch(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CartAdd loads the product and adds the requested quantity to the cart.
func CartAdd(store *cartstore.Store, productRepo products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := productRepo.FindByID(r.Context(), payload.ProductID)
		if err != nil {
			if products.IsNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product"))
			return
		}

		if err := store.Add(*product, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateItem sets the quantity of an existing line. Zero removes it.
func CartUpdateItem(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(pathParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.UpdateQuantity(productID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartRemoveItem deletes a line; removing an absent product still succeeds.
func CartRemoveItem(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(pathParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Remove(productID)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartClear empties the cart without committing anything.
func CartClear(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear()
		responses.WriteSuccess(w, newCartResponse(store))
	}
}
