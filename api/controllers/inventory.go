package controllers

import (
	"net/http"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/internal/notifications"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

// InventoryLowStock sweeps the catalog and returns products at or below the
// alert threshold, dispatching notifications along the way.
func InventoryLowStock(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := svc.CheckAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}
