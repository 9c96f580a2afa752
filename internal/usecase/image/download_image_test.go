package image

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fhuszti/images-ms-go/internal/mock"
	"github.com/fhuszti/images-ms-go/internal/model"
)

func TestDownloadImage_NotFound(t *testing.T) {
	svc := NewImageDownloader(mock.NewImageRepo(), &mock.Storage{}, testBucket)
	if _, err := svc.DownloadImage(context.Background(), testID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDownloadImage_NotCompleted(t *testing.T) {
	strg := &mock.Storage{}
	svc := NewImageDownloader(mock.NewImageRepo(newPendingImage()), strg, testBucket)

	out, err := svc.DownloadImage(context.Background(), testID)
	if !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
	if out.Status != model.ImageStatusPending {
		t.Errorf("status = %s; want pending", out.Status)
	}
	if strg.GetCalled {
		t.Error("storage must not be touched")
	}
}

func TestDownloadImage_MissingObject(t *testing.T) {
	strg := &mock.Storage{GetErr: ErrObjectNotFound}
	svc := NewImageDownloader(mock.NewImageRepo(newCompletedImage()), strg, testBucket)

	if _, err := svc.DownloadImage(context.Background(), testID); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestDownloadImage_Success(t *testing.T) {
	strg := &mock.Storage{GetOut: bytes.NewReader([]byte("webp"))}
	svc := NewImageDownloader(mock.NewImageRepo(newCompletedImage()), strg, testBucket)

	out, err := svc.DownloadImage(context.Background(), testID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer out.File.Close()

	if out.Filename != "photo.webp" || out.ContentType != "image/webp" || out.SizeBytes != 4 {
		t.Errorf("unexpected output: %+v", out)
	}
	if strg.ObjectKey != testID.String()+"/photo.webp" {
		t.Errorf("opened %q", strg.ObjectKey)
	}
	data, _ := io.ReadAll(out.File)
	if string(data) != "webp" {
		t.Errorf("body = %q", data)
	}
}
