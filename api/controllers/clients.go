package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/api/validators"
	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

func ClientsList(repo clients.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ClientDetail(repo clients.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(pathParam(r, "clientId"), "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client, err := repo.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "client not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client"))
			return
		}
		responses.WriteSuccess(w, client)
	}
}

type clientCreateRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Country *string `json:"country"`
}

func ClientCreate(repo clients.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload clientCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client := &models.Client{
			Name:    payload.Name,
			Email:   payload.Email,
			Phone:   payload.Phone,
			Address: payload.Address,
			Country: payload.Country,
		}
		if err := repo.Create(r.Context(), client); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, client)
	}
}

type clientUpdateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Country *string `json:"country"`
}

func ClientUpdate(repo clients.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(pathParam(r, "clientId"), "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload clientUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates := map[string]any{}
		if payload.Name != nil {
			updates["name"] = *payload.Name
		}
		if payload.Email != nil {
			updates["email"] = *payload.Email
		}
		if payload.Phone != nil {
			updates["phone"] = *payload.Phone
		}
		if payload.Address != nil {
			updates["address"] = *payload.Address
		}
		if payload.Country != nil {
			updates["country"] = *payload.Country
		}
		if len(updates) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update"))
			return
		}

		if err := repo.Update(r.Context(), id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "client not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
