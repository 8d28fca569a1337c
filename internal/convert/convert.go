// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns PDF bytes into plain text through pluggable
// backends: a hosted conversion service or a local container image. A
// backend that fails or returns too little text signals the caller to fall
// back to the heuristic scanner.
package convert

import (
	"context"
	"fmt"

	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// Converter transforms raw PDF bytes into plain text.
type Converter interface {
	// Convert returns the extracted text for the document. A result
	// shorter than the configured minimum is reported as an error so the
	// caller can fall back.
	Convert(ctx context.Context, filename string, data []byte) (string, error)
}

// ErrShortResult wraps conversions that technically succeeded but produced
// too little text to be usable.
type ErrShortResult struct {
	Got, Min int
}

func (e *ErrShortResult) Error() string {
	return fmt.Sprintf("conversion produced %d characters, need at least %d", e.Got, e.Min)
}

// defaultMinChars applies when the config leaves MinChars unset.
const defaultMinChars = 50

// minChars resolves the usable-text floor from config.
func minChars(cfg types.ConversionConfig) int {
	if cfg.MinChars > 0 {
		return cfg.MinChars
	}
	return defaultMinChars
}
