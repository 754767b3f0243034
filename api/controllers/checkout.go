package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/api/validators"
	cartstore "github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/sales"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

// Field presence is checked by the sale writer so a missing id surfaces as
// MISSING_FIELD with the offending field names, not as a decode failure.
type checkoutRequest struct {
	ClientID   uuid.UUID `json:"clientId"`
	SaleTypeID uuid.UUID `json:"saleTypeId"`
	CourierID  uuid.UUID `json:"courierId"`
	Discount   *string   `json:"discount"`
}

func (r checkoutRequest) toMeta() (sales.Meta, error) {
	meta := sales.Meta{
		ClientID:   r.ClientID,
		SaleTypeID: r.SaleTypeID,
		CourierID:  r.CourierID,
		Discount:   decimal.Zero,
	}
	if r.Discount != nil {
		discount, err := decimal.NewFromString(*r.Discount)
		if err != nil {
			return sales.Meta{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount amount")
		}
		meta.Discount = discount
	}
	return meta, nil
}

// Checkout commits the cart as a sale and clears it once the commit is
// confirmed durable.
func Checkout(svc sales.Service, store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta, err := payload.toMeta()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Commit(r.Context(), store, meta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The cart survives every failed attempt; only a durable commit
		// clears it.
		store.Clear()

		ctx := logg.WithSaleID(r.Context(), result.SaleID.String())
		logg.Info(ctx, "sale committed")

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
