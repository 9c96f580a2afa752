package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/fhuszti/images-ms-go/internal/validation"
)

type ImportImageRequest struct {
	URL string `json:"url" validate:"required,url,max=2048"`
}

func ImportImageHandler(svc port.ImportRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req ImportImageRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(ctx, "❌  Validation failed: %s", errsJSON)
			return
		}

		out, err := svc.RequestImport(ctx, port.RequestImportInput{URL: req.URL})
		if err != nil {
			var vErr *imageUC.ValidationError
			if errors.As(err, &vErr) {
				WriteViolations(ctx, w, vErr.Violations)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not schedule the import", err)
			return
		}

		RespondJSON(w, http.StatusAccepted, UploadImageResponse{
			ID:      out.ID.String(),
			Status:  string(out.Status),
			Message: "Import scheduled. The image will be fetched shortly.",
		})
		logger.Infof(ctx, "✅  Scheduled import of %q as image #%s", req.URL, out.ID)
	}
}
