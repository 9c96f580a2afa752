package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/images-ms-go/internal/mock"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

func TestDeleteImageHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"unknown", imageUC.ErrNotFound, http.StatusNotFound},
		{"still processing", fmt.Errorf("%w: image is processing", imageUC.ErrInProgress), http.StatusConflict},
		{"db down", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.ImageDeleter{Err: tc.err}
			rec := httptest.NewRecorder()
			DeleteImageHandler(svc).ServeHTTP(rec, requestWithID(http.MethodDelete, "/images/x"))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if svc.GotID != testID {
				t.Errorf("id = %s; want %s", svc.GotID, testID)
			}
		})
	}
}

func TestFallbackHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("404 handler status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	MethodNotAllowedHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/images", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("405 handler status = %d", rec.Code)
	}
}
