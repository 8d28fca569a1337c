// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textacq obtains the best-effort full text of a submitted
// document. Caller-supplied text wins outright when long enough; otherwise
// the PDF is downloaded once and an ordered list of providers runs against
// it: the external conversion backend first, then the heuristic scanner.
package textacq

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/johnmark127/r-kive-sub000/internal/convert"
	"github.com/johnmark127/r-kive-sub000/internal/pdftext"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// DefaultMinTextLen applies when the config leaves MinTextLen unset.
const DefaultMinTextLen = 10

// MinTextLen resolves the usable-text floor from config.
func MinTextLen(cfg types.AcquisitionConfig) int {
	if cfg.MinTextLen > 0 {
		return cfg.MinTextLen
	}
	return DefaultMinTextLen
}

// Result is the outcome of text acquisition. Exactly one of three shapes
// reaches the caller: usable text (len >= floor), insufficient text
// (shorter, DownloadErr nil), or no text at all because the PDF could not
// be fetched (DownloadErr set).
type Result struct {
	// Text is the acquired document text, possibly empty.
	Text string

	// Source names the provider that produced Text: "supplied",
	// "conversion", or "scanner".
	Source string

	// DownloadErr is set when the PDF itself was unreachable. It is
	// advisory: the caller degrades to a warning rather than failing.
	DownloadErr error
}

// Sufficient reports whether Text meets the usable floor.
func (r Result) Sufficient(min int) bool {
	return r.DownloadErr == nil && len(r.Text) >= min
}

// provider is one entry in the ordered fallback list.
type provider struct {
	name  string
	fetch func(ctx context.Context) (string, error)
}

// Service acquires document text for the ingestion coordinator.
type Service struct {
	client    *http.Client
	converter convert.Converter // nil disables the conversion tier
	cfg       types.AcquisitionConfig
}

// NewService builds an acquisition service. converter may be nil, in which
// case only the heuristic scanner runs on downloaded bytes.
func NewService(client *http.Client, converter convert.Converter, cfg types.AcquisitionConfig) *Service {
	return &Service{client: client, converter: converter, cfg: cfg}
}

// Acquire returns the best text available for the request. Provider
// failures after a successful download are logged to w and skipped; the
// first sufficiently long result wins.
func (s *Service) Acquire(ctx context.Context, req types.IngestRequest, w io.Writer) Result {
	min := MinTextLen(s.cfg)

	// Caller text is a strict preference, not a fallback: when long
	// enough nothing is downloaded and no backend runs.
	if len(req.ExtractedText) >= min {
		return Result{Text: req.ExtractedText, Source: "supplied"}
	}

	dl := &download{client: s.client, url: req.FileURL, cfg: s.cfg}
	filename := pdfFilename(req.FileURL)

	var providers []provider
	if s.converter != nil {
		providers = append(providers, provider{
			name: "conversion",
			fetch: func(ctx context.Context) (string, error) {
				data, err := dl.fetch(ctx)
				if err != nil {
					return "", err
				}
				return s.converter.Convert(ctx, filename, data)
			},
		})
	}
	providers = append(providers, provider{
		name: "scanner",
		fetch: func(ctx context.Context) (string, error) {
			data, err := dl.fetch(ctx)
			if err != nil {
				return "", err
			}
			return pdftext.Extract(data), nil
		},
	})

	var text, source string
	for _, p := range providers {
		t, err := p.fetch(ctx)
		if err != nil {
			if dl.err != nil {
				// The PDF itself is unreachable; later providers
				// would fail the same way.
				return Result{DownloadErr: dl.err}
			}
			fmt.Fprintf(w, "warning: %s: %v\n", p.name, err)
			continue
		}
		if len(t) >= min {
			return Result{Text: t, Source: p.name}
		}
		text, source = t, p.name
	}

	// Every provider fell short; report what the last one managed.
	return Result{Text: text, Source: source}
}

// download fetches the PDF at most once and caches the outcome for every
// provider in the list.
type download struct {
	client *http.Client
	url    string
	cfg    types.AcquisitionConfig

	done bool
	data []byte
	err  error
}

func (d *download) fetch(ctx context.Context) ([]byte, error) {
	if d.done {
		return d.data, d.err
	}
	d.done = true
	d.data, d.err = d.get(ctx)
	return d.data, d.err
}

func (d *download) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if d.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", d.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, d.url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}
	return data, nil
}

// pdfFilename derives a filename for the conversion backend from the URL.
func pdfFilename(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "document.pdf"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "document.pdf"
	}
	return base
}
