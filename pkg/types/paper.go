// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation pipeline.
package types

import "time"

// ExtractionStatus tracks a paper's progress through citation processing.
type ExtractionStatus string

const (
	// StatusProcessing is set when a paper is created or a retry begins.
	StatusProcessing ExtractionStatus = "processing"

	// StatusCompletedWithCitations means text was acquired and at least
	// one citation was detected.
	StatusCompletedWithCitations ExtractionStatus = "completed_with_citations"

	// StatusCompletedNoCitations means text was acquired but no stored
	// paper was referenced in it.
	StatusCompletedNoCitations ExtractionStatus = "completed_no_citations"

	// StatusFailedNoText means neither the caller, the conversion
	// service, nor the scanner produced usable text.
	StatusFailedNoText ExtractionStatus = "failed_no_text"
)

// Terminal reports whether the status is a terminal state. A paper whose
// PDF download failed outright is left at StatusProcessing; the retry path
// can re-run the pipeline for it.
func (s ExtractionStatus) Terminal() bool {
	switch s {
	case StatusCompletedWithCitations, StatusCompletedNoCitations, StatusFailedNoText:
		return true
	}
	return false
}

// Paper holds the bibliographic record and processing state for an
// ingested document. Bibliographic fields are set once at creation; only
// the pipeline mutates the processing fields.
type Paper struct {
	// ID is the paper's unique identifier (UUID string).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the free-text author list as submitted.
	Authors string `json:"authors" yaml:"authors"`

	// YearPublished is the publication year.
	YearPublished int `json:"year_published" yaml:"year_published"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Category is an optional subject classification.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// FileURL is a reachable location of the PDF.
	FileURL string `json:"file_url" yaml:"file_url"`

	// UploadedBy identifies the submitting user (optional).
	UploadedBy string `json:"uploaded_by,omitempty" yaml:"uploaded_by,omitempty"`

	// ExtractionStatus is the citation-processing state.
	ExtractionStatus ExtractionStatus `json:"extraction_status" yaml:"extraction_status"`

	// CitationsExtracted is true once a completed_* state is reached.
	CitationsExtracted bool `json:"citations_extracted" yaml:"citations_extracted"`

	// CitationsExtractedAt is stamped on the completed_* transitions only.
	CitationsExtractedAt *time.Time `json:"citations_extracted_at,omitempty" yaml:"citations_extracted_at,omitempty"`

	// CreatedAt is the record creation time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Citation is a directed edge of the citation graph: the citing paper
// references the cited paper. Edges are written by the pipeline and never
// updated or deleted by it. The schema enforces no uniqueness, so repeated
// processing of the same paper can insert duplicate edges.
type Citation struct {
	// CitingPaperID is the paper whose text contains the reference.
	CitingPaperID string `json:"citing_paper_id" yaml:"citing_paper_id"`

	// CitedPaperID is the paper being referenced.
	CitedPaperID string `json:"cited_paper_id" yaml:"cited_paper_id"`

	// CreatedAt is the edge insertion time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
