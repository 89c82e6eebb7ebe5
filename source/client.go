package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TransportError reports a failed fetch. StatusCode is zero when no HTTP
// response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client fetches raw feed bodies from HTTP URLs or local file paths.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client whose requests time out after timeout. A zero
// timeout disables the limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the body at urlOrPath. Anything that is not an http(s) URL is
// read from the local filesystem.
func (c *Client) Fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if !isHTTP(urlOrPath) {
		data, err := os.ReadFile(urlOrPath)
		if err != nil {
			return nil, &TransportError{URL: urlOrPath, Err: err}
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, &TransportError{URL: urlOrPath, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: urlOrPath, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: urlOrPath, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: urlOrPath, StatusCode: resp.StatusCode, Err: err}
	}
	return data, nil
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
