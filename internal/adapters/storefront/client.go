package storefront

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/alejandrodnm/storearb/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// Un snapshot por run; el limiter solo protege el endpoint en modo loop
	// y durante los reintentos.
	requestsPerSec = 2
	requestBurst   = 1

	defaultTimeout = 10 * time.Second
	maxRetries     = 3
	baseRetryWait  = 500 * time.Millisecond
	maxBodyBytes   = 64 << 20
)

// Client descarga el snapshot de tiendas con rate limiting y retries.
type Client struct {
	http      *http.Client
	url       string
	limiter   *rate.Limiter
	retryWait time.Duration
}

// NewClient crea un Client para el endpoint dado. timeout <= 0 usa 10s.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		url:       url,
		limiter:   rate.NewLimiter(requestsPerSec, requestBurst),
		retryWait: baseRetryWait,
	}
}

// FetchStores implementa ports.StoreProvider.
func (c *Client) FetchStores(ctx context.Context) ([]domain.Store, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront.FetchStores: %w: %v", domain.ErrFetchFailed, err)
	}
	slog.Info("data fetched successfully", "bytes", len(body))

	stores, err := Normalize(body)
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// get hace el GET con rate limiting y retries y devuelve el body.
func (c *Client) get(ctx context.Context) ([]byte, error) {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			slog.Warn("snapshot endpoint unavailable", "status", resp.StatusCode, "attempt", attempt+1)
			if attempt == maxRetries {
				return nil, fmt.Errorf("HTTP %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(snippet))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
