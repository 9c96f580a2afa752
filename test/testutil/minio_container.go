package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"

	"github.com/fhuszti/images-ms-go/internal/storage"
)

type MinIOContainerInfo struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Strg      *storage.MinioStorage
	Cleanup   func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	const (
		rootUser     = "minioadmin"
		rootPassword = "minioadmin"
	)

	c, err := startContainer(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			"MINIO_ROOT_USER=" + rootUser,
			"MINIO_ROOT_PASSWORD=" + rootPassword,
		},
		Cmd: []string{"server", "/data"},
	}, "9000/tcp", func(hostAddr string) error {
		client, err := minio.New(hostAddr, &minio.Options{
			Creds: credentials.NewStaticV4(rootUser, rootPassword, ""),
		})
		if err != nil {
			return err
		}
		// ListBuckets is a light operation to check health
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = client.ListBuckets(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	strg, err := storage.NewMinioStorage(c.HostAddr, rootUser, rootPassword, false)
	if err != nil {
		c.purge()
		return nil, fmt.Errorf("could not create minio client: %w", err)
	}

	return &MinIOContainerInfo{
		Endpoint:  c.HostAddr,
		AccessKey: rootUser,
		SecretKey: rootPassword,
		Strg:      strg,
		Cleanup:   c.purge,
	}, nil
}
