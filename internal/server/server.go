// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the ingestion pipeline and citation graph over
// HTTP.
package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnmark127/r-kive-sub000/internal/ingest"
	"github.com/johnmark127/r-kive-sub000/internal/store"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// Server holds the HTTP handlers' collaborators.
type Server struct {
	store *store.Store
	coord *ingest.Coordinator
	log   io.Writer
}

// New builds a Server around the store and coordinator. Pipeline progress
// is written to logW, not to response bodies.
func New(s *store.Store, coord *ingest.Coordinator, logW io.Writer) *Server {
	if logW == nil {
		logW = io.Discard
	}
	return &Server{store: s, coord: coord, log: logW}
}

// Router assembles the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)

	papers := r.Group("/papers")
	{
		papers.POST("/ingest", s.ingestPaper)
		papers.GET("/:id", s.getPaper)
		papers.GET("/:id/citations", s.getCitations)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ingestPaper runs the full pipeline synchronously and reports the
// outcome. Validation problems are the caller's fault (400); a failure to
// create the record is ours (500); everything after that is a 200, with
// the response's warning field carrying any degradation.
func (s *Server) ingestPaper(c *gin.Context) {
	var req types.IngestRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	resp, err := s.coord.Ingest(c.Request.Context(), req, s.log)
	switch {
	case ingest.IsValidation(err):
		c.JSON(http.StatusBadRequest, resp)
	case err != nil:
		c.JSON(http.StatusInternalServerError, resp)
	default:
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) getPaper(c *gin.Context) {
	p, err := s.store.GetPaper(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "paper not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getCitations(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.GetPaper(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "paper not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	edges, err := s.store.ListCitations(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"citations": edges, "count": len(edges)})
}
