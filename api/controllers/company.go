package controllers

import (
	"net/http"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/api/validators"
	"github.com/rmarquez/ventapos-backend/internal/company"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

// CompanyProfile returns the identity block printed on receipts.
func CompanyProfile(repo company.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := repo.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company profile"))
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type companyUpdateRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

func CompanyUpdate(repo company.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload companyUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile := company.Profile{
			Name:    payload.Name,
			Address: payload.Address,
			Contact: payload.Contact,
		}
		if err := repo.Upsert(r.Context(), profile); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save company profile"))
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
