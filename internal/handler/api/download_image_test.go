package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fhuszti/images-ms-go/internal/mock"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

type closeTracker struct {
	io.ReadSeeker
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestDownloadImageHandler_Completed(t *testing.T) {
	data := []byte("RIFF....WEBPVP8 fake")
	file := &closeTracker{ReadSeeker: bytes.NewReader(data)}
	svc := &mock.ImageDownloader{Out: port.DownloadImageOutput{
		Status:      model.ImageStatusCompleted,
		File:        file,
		Filename:    "holiday.webp",
		ContentType: "image/webp",
		SizeBytes:   int64(len(data)),
		ModTime:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}

	rec := httptest.NewRecorder()
	DownloadImageHandler(svc).ServeHTTP(rec, requestWithID(http.MethodGet, "/images/x/download"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/webp" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=holiday.webp` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Errorf("body = %q; want %q", rec.Body.Bytes(), data)
	}
	if !file.closed {
		t.Error("stored file was not closed")
	}
	if svc.GotID != testID {
		t.Errorf("id = %s; want %s", svc.GotID, testID)
	}
}

func TestDownloadImageHandler_NotCompleted(t *testing.T) {
	svc := &mock.ImageDownloader{
		Out: port.DownloadImageOutput{Status: model.ImageStatusProcessing},
		Err: imageUC.ErrNotCompleted,
	}

	rec := httptest.NewRecorder()
	DownloadImageHandler(svc).ServeHTTP(rec, requestWithID(http.MethodGet, "/images/x/download"))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d; want 202", rec.Code)
	}
	var resp PendingDownloadResponse
	decodeJSON(t, rec, &resp)
	if resp.ID != testID.String() || resp.Status != "processing" {
		t.Errorf("response = %+v", resp)
	}
}

func TestDownloadImageHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown record", imageUC.ErrNotFound, http.StatusNotFound},
		{"object gone", imageUC.ErrObjectNotFound, http.StatusNotFound},
		{"storage down", errors.New("minio unreachable"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DownloadImageHandler(&mock.ImageDownloader{Err: tc.err}).
				ServeHTTP(rec, requestWithID(http.MethodGet, "/images/x/download"))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
