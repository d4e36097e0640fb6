package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// HTTP reads documents from a static file server. Every request carries a
// cache-busting version parameter fixed when the client is created.
type HTTP struct {
	base       *url.URL
	dataFolder string
	manifest   string
	version    string
	httpClient *http.Client
	group      singleflight.Group
}

// HTTPOptions configures an HTTP source.
type HTTPOptions struct {
	BaseURL    string
	DataFolder string
	Manifest   string
	Timeout    time.Duration
	// Version is the cache-busting value; empty means the creation time in
	// milliseconds.
	Version string
}

func NewHTTP(opts HTTPOptions) (*HTTP, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	version := opts.Version
	if version == "" {
		version = fmt.Sprintf("%d", time.Now().UnixMilli())
	}
	manifest := opts.Manifest
	if manifest == "" {
		manifest = "items.json"
	}
	return &HTTP{
		base:       base,
		dataFolder: opts.DataFolder,
		manifest:   manifest,
		version:    version,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}, nil
}

// Manifest fetches items.json next to the base URL.
func (c *HTTP) Manifest(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.manifest)
}

// Document fetches a manifest path below the data folder.
func (c *HTTP) Document(ctx context.Context, p string) ([]byte, error) {
	return c.get(ctx, path.Join(c.dataFolder, p))
}

// URL returns the versioned absolute URL for a path relative to the base.
func (c *HTTP) URL(p string) string {
	ref := &url.URL{
		Path:     strings.TrimPrefix(p, "/"),
		RawQuery: url.Values{"v": {c.version}}.Encode(),
	}
	return c.base.ResolveReference(ref).String()
}

// get coalesces concurrent requests for the same URL. The shared fetch is
// detached from any one caller's cancellation; each caller stops waiting
// when its own context ends.
func (c *HTTP) get(ctx context.Context, p string) ([]byte, error) {
	u := c.URL(p)
	ch := c.group.DoChan(u, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), u)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *HTTP) fetch(ctx context.Context, u string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Target: u, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return body, nil
}

// Close releases idle connections.
func (c *HTTP) Close() {
	c.httpClient.CloseIdleConnections()
}
