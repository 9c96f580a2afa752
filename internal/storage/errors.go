package storage

import (
	"fmt"

	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return imageUC.ErrObjectNotFound
	case "NoSuchBucket":
		return imageUC.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return imageUC.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", imageUC.ErrInternal, err)
	}
}
