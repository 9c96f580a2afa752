package image

import (
	"time"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

var testID = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

const (
	testBucket = "images"
	testStaged = "/tmp/staging/0f8c_photo.png"
)

func strPtr(s string) *string { return &s }

func newPendingImage() *model.Image {
	return &model.Image{
		ID:           testID,
		Status:       model.ImageStatusPending,
		OriginalName: "photo.png",
		StagedPath:   strPtr(testStaged),
		CreatedAt:    time.Now().Add(-2 * time.Hour),
		UpdatedAt:    time.Now().Add(-2 * time.Hour),
	}
}

func newCompletedImage() *model.Image {
	img := newPendingImage()
	img.Status = model.ImageStatusCompleted
	img.StagedPath = nil
	img.StoredFile = strPtr(testID.String() + "/photo.webp")
	img.Metadata = model.Metadata{Width: 10, Height: 10, SizeBytes: 4, MimeType: "image/webp"}
	return img
}
