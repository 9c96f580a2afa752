package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

func GetStatusHandler(renderer port.StatusRenderer, svc port.StatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		raw, etag, err := renderer.RenderStatus(ctx, svc, id)
		if err != nil {
			if errors.Is(err, imageUC.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Image not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get image status", err)
			return
		}

		// the status moves on its own, so clients must revalidate every time
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Debug(ctx, "✅  Status unchanged since last request")
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		logger.Debugf(ctx, "✅  Returned status of image #%s", id)
	}
}
