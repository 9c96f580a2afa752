package api

import (
	"errors"
	"mime"
	"net/http"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

type PendingDownloadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func DownloadImageHandler(svc port.ImageDownloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		out, err := svc.DownloadImage(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, imageUC.ErrNotFound), errors.Is(err, imageUC.ErrObjectNotFound):
				WriteError(w, http.StatusNotFound, "Image not found", err)
			case errors.Is(err, imageUC.ErrNotCompleted):
				w.Header().Set("Cache-Control", "no-store")
				RespondJSON(w, http.StatusAccepted, PendingDownloadResponse{
					ID:     id.String(),
					Status: string(out.Status),
					Error:  "Image is not ready yet",
				})
			default:
				WriteError(w, http.StatusInternalServerError, "Could not download image", err)
			}
			return
		}
		defer func() { _ = out.File.Close() }()

		w.Header().Set("Content-Type", out.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
		http.ServeContent(w, r, out.Filename, out.ModTime, out.File)
		logger.Infof(ctx, "✅  Served %q for image #%s", out.Filename, id)
	}
}
