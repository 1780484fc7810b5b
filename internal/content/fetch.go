package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// ErrStatus is wrapped by HTTPFetcher for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Fetcher retrieves raw markdown by content path, e.g. "blogs/hello.md".
type Fetcher interface {
	Fetch(ctx context.Context, p string) ([]byte, error)
}

type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	b, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// HTTPFetcher fetches content over HTTP relative to BaseURL. It imposes no
// timeout of its own; the caller's context and Client decide.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client // Defaults to http.DefaultClient.
}

func (f HTTPFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	u, err := url.JoinPath(f.BaseURL, p)
	if err != nil {
		return nil, fmt.Errorf("bad content url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %w: %s", u, ErrStatus, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return b, nil
}
