package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

func DeleteImageHandler(svc port.ImageDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.DeleteImage(ctx, id); err != nil {
			switch {
			case errors.Is(err, imageUC.ErrNotFound):
				WriteError(w, http.StatusNotFound, "Image not found", nil)
			case errors.Is(err, imageUC.ErrInProgress):
				WriteError(w, http.StatusConflict, "Image is still being processed", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not delete image", err)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(ctx, "✅  Deleted image #%s", id)
	}
}
