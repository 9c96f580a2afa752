package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"golang.org/x/net/idna"
)

const DefaultTimeout = 30 * time.Second

var ErrTooLarge = fmt.Errorf("%w: remote image exceeds the size limit", imageUC.ErrValidation)

type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

var _ port.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher returns a fetcher whose requests give up after timeout and
// whose bodies are cut off past maxBytes. A zero maxBytes disables the bound.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	target, err := normaliseURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	logger.Debugf(ctx, "fetching remote image %q...", target)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imageUC.ErrTransientIO, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", imageUC.ErrRemoteStatus, resp.Status)
	}

	if f.maxBytes > 0 {
		if resp.ContentLength > f.maxBytes {
			_ = resp.Body.Close()
			return nil, ErrTooLarge
		}
		return &boundedBody{rc: resp.Body, remaining: f.maxBytes}, nil
	}
	return resp.Body, nil
}

// normaliseURL checks the scheme and converts an internationalised host to
// its ASCII form.
func normaliseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url: %v", imageUC.ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", imageUC.ErrValidation, u.Scheme)
	}

	host, port := u.Hostname(), u.Port()
	if host == "" {
		return "", fmt.Errorf("%w: url has no host", imageUC.ErrValidation)
	}
	if net.ParseIP(host) != nil {
		return u.String(), nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: invalid host %q: %v", imageUC.ErrValidation, host, err)
	}
	if port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else {
		u.Host = ascii
	}
	return u.String(), nil
}

// boundedBody fails the read once more than remaining bytes came through.
type boundedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func (b *boundedBody) Read(p []byte) (int, error) {
	if b.remaining < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.rc.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return n + int(b.remaining), ErrTooLarge
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %v", imageUC.ErrTransientIO, err)
	}
	return n, err
}

func (b *boundedBody) Close() error {
	return b.rc.Close()
}
