// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IngestRequest is the single synchronous call that triggers the citation
// pipeline for an uploaded document. Title, Authors, YearPublished,
// Abstract, and FileURL are required; everything else is optional.
type IngestRequest struct {
	Title         string `json:"title" yaml:"title"`
	Authors       string `json:"authors" yaml:"authors"`
	YearPublished int    `json:"year_published" yaml:"year_published"`
	Abstract      string `json:"abstract" yaml:"abstract"`
	FileURL       string `json:"file_url" yaml:"file_url"`

	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	UploadedBy string `json:"uploaded_by,omitempty" yaml:"uploaded_by,omitempty"`

	// PaperID names an existing record to reprocess. Required when Retry
	// is set.
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`

	// Retry reuses the PaperID record instead of creating a new one. Only
	// the record's processing fields are reset.
	Retry bool `json:"retry,omitempty" yaml:"retry,omitempty"`

	// ExtractedText, when at least MinTextLen characters long, is used
	// verbatim as the document text; no download or conversion runs.
	ExtractedText string `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`
}

// IngestResponse reports the outcome of an ingestion call. Once the paper
// record exists the call succeeds even when citation enrichment fails;
// Warning carries the downstream problem in that case.
type IngestResponse struct {
	Success       bool   `json:"success" yaml:"success"`
	PaperID       string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
	CitationCount int    `json:"citation_count" yaml:"citation_count"`
	Message       string `json:"message,omitempty" yaml:"message,omitempty"`
	Warning       string `json:"warning,omitempty" yaml:"warning,omitempty"`
}
