package service

import (
	"github.com/gin-gonic/gin"
	"github.com/nextmind/nextmind-backend/internal/pkg/response"
)

// Config handles GET /api/v1/config. It tells the frontend whether the
// backend holds a Gemini key (so the key input can be hidden) and which
// models may be requested. The key itself is never exposed.
func (s *Service) Config(c *gin.Context) {
	response.Success(c, gin.H{
		"useBackendApiKey": s.cfg.Gemini.UseBackendAPIKey,
		"defaultModel":     s.cfg.Gemini.DefaultModel,
		"allowedModels":    s.cfg.Gemini.AllowedModels,
	})
}
