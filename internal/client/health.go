package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HealthURL returns the /health endpoint of a server given either its base
// URL or its websocket endpoint.
func HealthURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// WaitForHealthy polls the server's /health endpoint until it answers 200 OK
// or ctx is done.
func WaitForHealthy(ctx context.Context, serverURL string) error {
	healthURL, err := HealthURL(serverURL)
	if err != nil {
		return err
	}
	httpClient := &http.Client{Timeout: time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return err
		}
		if resp, err := httpClient.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("server at %s not healthy: %w", healthURL, ctx.Err())
		case <-ticker.C:
		}
	}
}
