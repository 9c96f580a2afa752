package testutil

import (
	"context"
	"fmt"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/fhuszti/images-ms-go/internal/logger"
)

// container is a running throwaway docker container.
type container struct {
	// HostAddr is "localhost:<mapped port>" for the exposed port.
	HostAddr string
	purge    func()
}

// startContainer runs opts and retries ready against the mapped port until
// it succeeds or the pool gives up.
func startContainer(opts *dockertest.RunOptions, exposed string, ready func(hostAddr string) error) (*container, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s container: %w", opts.Repository, err)
	}

	hostAddr := fmt.Sprintf("localhost:%s", resource.GetPort(exposed))
	if err := pool.Retry(func() error { return ready(hostAddr) }); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("%s did not become ready: %w", opts.Repository, err)
	}

	return &container{
		HostAddr: hostAddr,
		purge: func() {
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge %s container: %v", opts.Repository, err)
			}
		},
	}, nil
}
