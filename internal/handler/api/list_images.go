package api

import (
	"net/http"
	"strconv"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
)

func ListImagesHandler(svc port.ImageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, err := intParam(q.Get("limit"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "limit must be an integer", err)
			return
		}
		offset, err := intParam(q.Get("offset"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "offset must be an integer", err)
			return
		}

		out, err := svc.ListImages(r.Context(), port.ListImagesInput{Limit: limit, Offset: offset})
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list images", err)
			return
		}
		if out == nil {
			out = []port.StatusOutput{}
		}

		w.Header().Set("Cache-Control", "no-cache")
		RespondJSON(w, http.StatusOK, out)
		logger.Debugf(r.Context(), "✅  Listed %d images", len(out))
	}
}

// intParam treats an absent parameter as 0, letting the use case apply its default.
func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
