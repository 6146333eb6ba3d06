// Package source retrieves raw CSV resources from URLs or local paths.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrUnreachable wraps every retrieval failure.
var ErrUnreachable = errors.New("source unreachable")

// Fetcher opens a data resource by location.
type Fetcher interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Remote fetches http(s) URLs and reads file:// URLs and local paths.
type Remote struct {
	opts *fetcherOptions
}

// New creates a fetcher.
func New(opts ...Option) *Remote {
	return &Remote{opts: applyOptions(opts)}
}

// Open returns the body of the resource at location. The caller closes it.
func (f *Remote) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnreachable)
	}

	switch kind, target := Classify(location); kind {
	case KindHTTP:
		return f.openHTTP(ctx, target)
	default:
		return openFile(target)
	}
}

func (f *Remote) openHTTP(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("User-Agent", f.opts.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := f.opts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnreachable, target, resp.Status)
	}
	return resp.Body, nil
}

func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return file, nil
}

// Kind is the transport a location resolves to.
type Kind int

const (
	KindFile Kind = iota
	KindHTTP
)

// String returns the transport name.
func (k Kind) String() string {
	if k == KindHTTP {
		return "http"
	}
	return "file"
}

// Classify resolves a location to its transport and target. file:// URLs
// resolve to their path.
func Classify(location string) (Kind, string) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return KindFile, location
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return KindHTTP, location
	case "file":
		if u.Path != "" {
			return KindFile, u.Path
		}
		return KindFile, u.Opaque
	default:
		// Windows drive letters parse as a scheme
		return KindFile, location
	}
}
