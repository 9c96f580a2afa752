package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/fhuszti/images-ms-go/internal/validation"
)

const (
	uploadField = "image"
	// room for the multipart envelope on top of the image itself
	multipartOverhead = 1 << 20
	// parts beyond this stay on disk instead of memory
	multipartMemory = 8 << 20
)

type UploadImageResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func UploadImageHandler(svc port.ImageIngester, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteViolations(ctx, w, []string{validation.SizeViolation(int(maxBytes >> 20))})
				return
			}
			WriteError(w, http.StatusBadRequest, "No image provided", err)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "No image provided", err)
			return
		}
		defer func() { _ = file.Close() }()

		out, err := svc.IngestImage(ctx, port.IngestImageInput{
			Reader:       file,
			Size:         header.Size,
			OriginalName: header.Filename,
		})
		if err != nil {
			var vErr *imageUC.ValidationError
			switch {
			case errors.As(err, &vErr):
				WriteViolations(ctx, w, vErr.Violations)
			case errors.Is(err, imageUC.ErrDecode):
				WriteError(w, http.StatusBadRequest, "The uploaded file is not a supported image", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not accept the upload", err)
			}
			return
		}

		RespondJSON(w, http.StatusAccepted, UploadImageResponse{
			ID:      out.ID.String(),
			Status:  string(out.Status),
			Message: "Thanks for your upload! Processing has started.",
		})
		logger.Infof(ctx, "✅  Accepted upload %q as image #%s", header.Filename, out.ID)
	}
}
