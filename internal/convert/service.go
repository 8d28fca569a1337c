// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/johnmark127/r-kive-sub000/internal/httputil"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// defaultRequestsPerSecond limits calls to the hosted endpoint when the
// config leaves the rate unset.
const defaultRequestsPerSecond = 2.0

// serviceRequest is the JSON body posted to the conversion endpoint.
type serviceRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64-encoded document bytes
}

// serviceResponse is the JSON body returned by the conversion endpoint.
type serviceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ServiceConverter posts documents to a hosted PDF-to-text endpoint.
type ServiceConverter struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     types.ConversionConfig
}

// NewServiceConverter builds a rate-limited converter for the endpoint in
// cfg.ServiceURL.
func NewServiceConverter(client *http.Client, cfg types.ConversionConfig) (*ServiceConverter, error) {
	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("conversion service URL not configured")
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	return &ServiceConverter{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cfg:     cfg,
	}, nil
}

// Convert submits the document and returns the extracted text. HTTP 429s
// are retried with backoff; any other non-200 status, a reported error, or
// a result below the usable-text floor is an error.
func (c *ServiceConverter) Convert(ctx context.Context, filename string, data []byte) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(serviceRequest{
		Filename: filename,
		Data:     base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("encoding conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("conversion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("conversion service returned HTTP %d", resp.StatusCode)
	}

	var sr serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("parsing conversion response: %w", err)
	}
	if sr.Error != "" {
		return "", fmt.Errorf("conversion service error: %s", sr.Error)
	}

	if min := minChars(c.cfg); len(sr.Text) < min {
		return "", &ErrShortResult{Got: len(sr.Text), Min: min}
	}
	return sr.Text, nil
}
