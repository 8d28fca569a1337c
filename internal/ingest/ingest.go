// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest coordinates the citation pipeline for one submitted
// document: validate, create or reuse the paper record, acquire text,
// match stored titles, write graph edges, and finalize the paper's status.
//
// The failure policy splits at record creation. Before the record exists,
// validation and persistence problems reject the request. After it exists,
// every downstream problem is absorbed into a success response carrying a
// warning: the fact that a paper was submitted must never be lost because
// citation enrichment failed.
package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/johnmark127/r-kive-sub000/internal/match"
	"github.com/johnmark127/r-kive-sub000/internal/store"
	"github.com/johnmark127/r-kive-sub000/internal/textacq"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// Acquirer is the text-acquisition dependency, satisfied by
// textacq.Service.
type Acquirer interface {
	Acquire(ctx context.Context, req types.IngestRequest, w io.Writer) textacq.Result
}

// Coordinator runs the ingestion pipeline.
type Coordinator struct {
	store *store.Store
	acq   Acquirer
	cfg   types.AcquisitionConfig

	// now is stubbed in tests.
	now func() time.Time

	// newID generates paper ids; stubbed in tests.
	newID func() string
}

// NewCoordinator wires the pipeline's collaborators.
func NewCoordinator(s *store.Store, acq Acquirer, cfg types.AcquisitionConfig) *Coordinator {
	return &Coordinator{
		store: s,
		acq:   acq,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Ingest processes one submission. The returned error is non-nil only for
// validation and persistence rejections, in which case the response has
// Success false; every later failure yields a success response with a
// warning. Pipeline progress is logged to w.
func (c *Coordinator) Ingest(ctx context.Context, req types.IngestRequest, w io.Writer) (types.IngestResponse, error) {
	if err := validate(req); err != nil {
		return types.IngestResponse{Success: false, Message: err.Error()}, err
	}

	paperID, err := c.establishPaper(ctx, req)
	if err != nil {
		return types.IngestResponse{Success: false, Message: err.Error()}, err
	}
	fmt.Fprintf(w, "processing paper %s\n", paperID)

	resp := types.IngestResponse{Success: true, PaperID: paperID}

	result := c.acq.Acquire(ctx, req, w)

	switch {
	case result.DownloadErr != nil:
		// The submission stands; the paper simply has no text yet. No
		// terminal status is set, so a retry can pick it up.
		fmt.Fprintf(w, "warning: download failed for %s: %v\n", paperID, result.DownloadErr)
		resp.Warning = fmt.Sprintf("could not download document: %v", result.DownloadErr)
		return resp, nil

	case !result.Sufficient(textacq.MinTextLen(c.cfg)):
		fmt.Fprintf(w, "insufficient text for %s (%d chars from %s)\n", paperID, len(result.Text), result.Source)
		if err := c.store.FinalizeStatus(ctx, paperID, types.StatusFailedNoText); err != nil {
			fmt.Fprintf(w, "warning: status update failed for %s: %v\n", paperID, err)
		}
		resp.Warning = "could not extract enough text from the document"
		return resp, nil
	}

	fmt.Fprintf(w, "acquired %d chars from %s\n", len(result.Text), result.Source)

	count, warn := c.extractCitations(ctx, paperID, result.Text, w)
	resp.CitationCount = count
	resp.Warning = warn
	return resp, nil
}

// extractCitations matches candidates, writes edges, and finalizes the
// status. It returns the number of detected citations and an advisory
// warning when any step degraded.
func (c *Coordinator) extractCitations(ctx context.Context, paperID, text string, w io.Writer) (int, string) {
	candidates, err := c.store.ListCandidates(ctx, paperID)
	if err != nil {
		fmt.Fprintf(w, "warning: listing candidates for %s: %v\n", paperID, err)
		return 0, fmt.Sprintf("citation analysis failed: %v", err)
	}

	cited := match.FindCited(text, candidates)
	for _, target := range cited {
		if err := c.store.InsertCitation(ctx, paperID, target.ID); err != nil {
			// Skipped edge; the count below stays based on detected
			// matches.
			fmt.Fprintf(w, "warning: inserting edge %s -> %s: %v\n", paperID, target.ID, err)
		}
	}

	status := types.StatusCompletedNoCitations
	if len(cited) > 0 {
		status = types.StatusCompletedWithCitations
	}

	var warn string
	if err := c.store.FinalizeStatus(ctx, paperID, status); err != nil {
		fmt.Fprintf(w, "warning: finalizing %s: %v\n", paperID, err)
		warn = fmt.Sprintf("could not record final status: %v", err)
	}

	fmt.Fprintf(w, "detected %d citation(s) for %s, status %s\n", len(cited), paperID, status)
	return len(cited), warn
}

// establishPaper creates a new record, or resets an existing one on retry.
func (c *Coordinator) establishPaper(ctx context.Context, req types.IngestRequest) (string, error) {
	if req.Retry {
		if err := c.store.ResetForRetry(ctx, req.PaperID); err != nil {
			return "", &PersistenceError{Op: "reusing paper " + req.PaperID, Cause: err}
		}
		return req.PaperID, nil
	}

	p := &types.Paper{
		ID:               c.newID(),
		Title:            req.Title,
		Authors:          req.Authors,
		YearPublished:    req.YearPublished,
		Abstract:         req.Abstract,
		Category:         req.Category,
		FileURL:          req.FileURL,
		UploadedBy:       req.UploadedBy,
		ExtractionStatus: types.StatusProcessing,
		CreatedAt:        c.now().UTC(),
	}
	if err := c.store.CreatePaper(ctx, p); err != nil {
		return "", &PersistenceError{Op: "creating paper", Cause: err}
	}
	return p.ID, nil
}

// validate checks the required request fields without touching the store.
func validate(req types.IngestRequest) error {
	switch {
	case req.Title == "":
		return &ValidationError{Field: "title"}
	case req.Authors == "":
		return &ValidationError{Field: "authors"}
	case req.YearPublished == 0:
		return &ValidationError{Field: "year_published"}
	case req.Abstract == "":
		return &ValidationError{Field: "abstract"}
	case req.FileURL == "":
		return &ValidationError{Field: "file_url"}
	case req.Retry && req.PaperID == "":
		return &ValidationError{Field: "paper_id"}
	}
	return nil
}
