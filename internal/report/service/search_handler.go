package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nextmind/nextmind-backend/internal/pkg/errors"
	"github.com/nextmind/nextmind-backend/internal/pkg/response"
	"github.com/nextmind/nextmind-backend/internal/ratelimit"
	searchtypes "github.com/nextmind/nextmind-backend/internal/websearch/types"
	"go.uber.org/zap"
)

// Search handles GET /api/v1/search.
func (s *Service) Search(c *gin.Context) {
	if !s.allow(c, ratelimit.OpSearch, s.cfg.RateLimit.SearchMax, s.cfg.RateLimit.SearchWindow) {
		return
	}

	query := c.Query("q")
	if query == "" {
		response.ErrorWithCode(c, apperrors.ErrSearchQueryRequired)
		return
	}

	if err := s.search.Validate(); err != nil {
		response.ErrorWithCode(c, apperrors.ErrSearchNotConfigured)
		return
	}

	req := &searchtypes.SearchRequest{
		Query:    query,
		Language: searchtypes.Language(c.Query("language")),
		SafeMode: c.Query("safe") == "true" || c.Query("safe") == "1",
	}

	result, err := s.search.Search(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))

		var provErr *searchtypes.ProviderError
		if errors.As(err, &provErr) {
			response.ErrorWithCode(c, apperrors.ErrSearchProvider, provErr.Message)
			return
		}
		response.ErrorWithCode(c, apperrors.ErrSearchProvider)
		return
	}

	response.Success(c, result)
}
