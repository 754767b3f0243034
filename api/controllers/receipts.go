package controllers

import (
	"net/http"
	"strconv"

	"github.com/rmarquez/ventapos-backend/api/responses"
	"github.com/rmarquez/ventapos-backend/api/validators"
	"github.com/rmarquez/ventapos-backend/internal/receipts"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

// ReceiptFetch composes the receipt document for a committed sale. With a
// format query parameter the rendered artifact is returned instead of JSON.
func ReceiptFetch(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.ParsePathUUID(pathParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			receipt, err := svc.Compose(r.Context(), saleID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, receipt)
			return
		}

		artifact, err := svc.Render(r.Context(), saleID, receipts.Format(format))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", artifact.MIME)
		w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact.Data)
	}
}

type receiptExportRequest struct {
	Format string `json:"format" validate:"required"`
}

// ReceiptExport renders a receipt and hands it to the configured share
// destination, returning where it ended up.
func ReceiptExport(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.ParsePathUUID(pathParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload receiptExportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.Export(r.Context(), saleID, receipts.Format(payload.Format))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"location": location})
	}
}
