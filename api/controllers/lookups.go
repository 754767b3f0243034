package controllers

import (
	"net/http"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/api/validators"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

type lookupCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

func SaleTypesList(repo lookups.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := repo.ListSaleTypes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sale types"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func SaleTypeCreate(repo lookups.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload lookupCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		st := &models.SaleType{Name: payload.Name}
		if err := repo.CreateSaleType(r.Context(), st); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale type"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, st)
	}
}

func CouriersList(repo lookups.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := repo.ListCouriers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list couriers"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CourierCreate(repo lookups.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload lookupCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		courier := &models.Courier{Name: payload.Name}
		if err := repo.CreateCourier(r.Context(), courier); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create courier"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, courier)
	}
}

func CategoriesList(repo lookups.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := repo.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CategoryCreate(repo lookups.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload lookupCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := &models.Category{Name: payload.Name}
		if err := repo.CreateCategory(r.Context(), category); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}
