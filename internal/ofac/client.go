// Package ofac implements the OFACClient contract of spec.md §4 and §6.4: a
// cached downloader for the Treasury's Specially Designated Nationals (SDN)
// XML list, trusted for a configurable freshness window before refetching.
package ofac

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/edgarintel/pipeline/internal/apperr"
	"github.com/edgarintel/pipeline/internal/logger"
)

const sdnURL = "https://www.treasury.gov/ofac/downloads/sdn.xml"

// Client downloads and caches the SDN list under cacheDir, named
// sdn_{YYYY-MM-DD}.xml, per spec.md §6.4.
type Client struct {
	httpClient    *http.Client
	cacheDir      string
	freshnessDays int
}

// New constructs a Client. timeout defaults to 120s, freshnessDays to 7, per
// spec.md §5 and §6.4.
func New(cacheDir string, timeout time.Duration, freshnessDays int) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if freshnessDays <= 0 {
		freshnessDays = 7
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		cacheDir:      cacheDir,
		freshnessDays: freshnessDays,
	}
}

// GetSDNList returns the raw SDN XML bytes, serving a cached copy when one
// exists within the freshness window and downloading a fresh copy otherwise.
func (c *Client) GetSDNList(ctx context.Context) ([]byte, error) {
	if path, ok := c.freshCachedFile(); ok {
		body, err := os.ReadFile(path)
		if err == nil {
			logger.Debug(ctx, "ofac: using cached SDN list", "path", path)
			return body, nil
		}
		logger.Warn(ctx, "ofac: cached SDN list unreadable, refetching", "path", path, "error", err)
	}

	body, err := c.download(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.writeCache(body); err != nil {
		logger.Warn(ctx, "ofac: failed to persist SDN cache", "error", err)
	}
	return body, nil
}

// freshCachedFile returns the path of today's or a still-fresh recent cache
// file, if present.
func (c *Client) freshCachedFile() (string, bool) {
	if c.cacheDir == "" {
		return "", false
	}
	for age := 0; age < c.freshnessDays; age++ {
		day := time.Now().AddDate(0, 0, -age)
		path := c.cachePath(day)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (c *Client) cachePath(day time.Time) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("sdn_%s.xml", day.Format("2006-01-02")))
}

func (c *Client) writeCache(body []byte) error {
	if c.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return err
	}
	path := c.cachePath(time.Now())
	return os.WriteFile(path, body, 0o644)
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sdnURL, nil)
	if err != nil {
		return nil, &apperr.FetchError{URL: sdnURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.FetchError{URL: sdnURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.FetchError{URL: sdnURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.FetchError{URL: sdnURL, Err: err}
	}
	return body, nil
}
