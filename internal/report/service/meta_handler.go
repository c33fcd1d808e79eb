package service

import (
	"github.com/gin-gonic/gin"
	"github.com/nextmind/nextmind-backend/internal/fetcher"
	apperrors "github.com/nextmind/nextmind-backend/internal/pkg/errors"
	"github.com/nextmind/nextmind-backend/internal/pkg/response"
	"golang.org/x/sync/errgroup"
)

// maxMetaURLs caps a single metadata batch.
const maxMetaURLs = 20

// MetaRequest is the body of POST /api/v1/meta.
type MetaRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

// FetchMeta handles POST /api/v1/meta: batch title/description lookup.
// Per-URL failures yield null fields rather than failing the batch.
func (s *Service) FetchMeta(c *gin.Context) {
	var req MetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	urls := req.URLs
	if len(urls) > maxMetaURLs {
		urls = urls[:maxMetaURLs]
	}

	results := make([]fetcher.Meta, len(urls))
	eg := errgroup.Group{}
	eg.SetLimit(8)

	for i, url := range urls {
		eg.Go(func() error {
			results[i] = s.fetcher.FetchMeta(c.Request.Context(), url)
			return nil
		})
	}
	_ = eg.Wait()

	response.Success(c, gin.H{"results": results})
}
