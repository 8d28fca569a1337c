// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "citegraph.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPaper(id, title string) *types.Paper {
	return &types.Paper{
		ID:               id,
		Title:            title,
		Authors:          "Alice Smith, Bob Jones",
		YearPublished:    2020,
		Abstract:         "An abstract.",
		FileURL:          "https://example.com/" + id + ".pdf",
		ExtractionStatus: types.StatusProcessing,
		CreatedAt:        time.Now().UTC(),
	}
}

func TestCreateAndGetPaper(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPaper("p1", "Foo Bar")
	p.Category = "ml"
	p.UploadedBy = "student-7"
	require.NoError(t, s.CreatePaper(ctx, p))

	got, err := s.GetPaper(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Foo Bar", got.Title)
	assert.Equal(t, "Alice Smith, Bob Jones", got.Authors)
	assert.Equal(t, 2020, got.YearPublished)
	assert.Equal(t, "ml", got.Category)
	assert.Equal(t, "student-7", got.UploadedBy)
	assert.Equal(t, types.StatusProcessing, got.ExtractionStatus)
	assert.False(t, got.CitationsExtracted)
	assert.Nil(t, got.CitationsExtractedAt)
}

func TestGetPaperNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetPaper(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetForRetryLeavesBibliographicColumns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPaper("p1", "Original Title")
	require.NoError(t, s.CreatePaper(ctx, p))
	require.NoError(t, s.FinalizeStatus(ctx, "p1", types.StatusCompletedWithCitations))

	require.NoError(t, s.ResetForRetry(ctx, "p1"))

	got, err := s.GetPaper(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Original Title", got.Title)
	assert.Equal(t, types.StatusProcessing, got.ExtractionStatus)
	assert.False(t, got.CitationsExtracted)
	assert.Nil(t, got.CitationsExtractedAt)
}

func TestResetForRetryMissingPaper(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.ResetForRetry(context.Background(), "missing"), ErrNotFound)
}

func TestListCandidatesExcludesSelf(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePaper(ctx, testPaper("p1", "First")))
	require.NoError(t, s.CreatePaper(ctx, testPaper("p2", "Second")))
	require.NoError(t, s.CreatePaper(ctx, testPaper("p3", "Third")))

	candidates, err := s.ListCandidates(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.NotEqual(t, "p2", c.ID)
	}
}

func TestInsertCitationAllowsDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePaper(ctx, testPaper("p1", "Citing")))
	require.NoError(t, s.CreatePaper(ctx, testPaper("p2", "Cited")))

	require.NoError(t, s.InsertCitation(ctx, "p1", "p2"))
	require.NoError(t, s.InsertCitation(ctx, "p1", "p2"))

	n, err := s.CountCitations(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	edges, err := s.ListCitations(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "p2", edges[0].CitedPaperID)
}

func TestFinalizeStatusStampsCompletedOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePaper(ctx, testPaper("p1", "A")))
	require.NoError(t, s.CreatePaper(ctx, testPaper("p2", "B")))

	require.NoError(t, s.FinalizeStatus(ctx, "p1", types.StatusCompletedNoCitations))
	got, err := s.GetPaper(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompletedNoCitations, got.ExtractionStatus)
	assert.True(t, got.CitationsExtracted)
	require.NotNil(t, got.CitationsExtractedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.CitationsExtractedAt, time.Minute)

	require.NoError(t, s.FinalizeStatus(ctx, "p2", types.StatusFailedNoText))
	got, err = s.GetPaper(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailedNoText, got.ExtractionStatus)
	assert.False(t, got.CitationsExtracted)
	assert.Nil(t, got.CitationsExtractedAt)
}
