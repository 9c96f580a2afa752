package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewBucket creates a uniquely named bucket and empties and removes it when
// the test ends.
func NewBucket(t *testing.T, ci *MinIOContainerInfo) string {
	t.Helper()

	name := fmt.Sprintf("images-%d", time.Now().UnixNano())
	if err := ci.Strg.InitBucket(name); err != nil {
		t.Fatalf("init bucket %q: %v", name, err)
	}

	t.Cleanup(func() {
		client, err := minio.New(ci.Endpoint, &minio.Options{
			Creds: credentials.NewStaticV4(ci.AccessKey, ci.SecretKey, ""),
		})
		if err != nil {
			t.Logf("bucket cleanup: %v", err)
			return
		}
		ctx := context.Background()
		for obj := range client.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				break
			}
			_ = client.RemoveObject(ctx, name, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, name); err != nil {
			t.Logf("remove bucket %q: %v", name, err)
		}
	})

	return name
}
