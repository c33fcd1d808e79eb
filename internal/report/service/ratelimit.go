package service

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nextmind/nextmind-backend/internal/pkg/errors"
	"github.com/nextmind/nextmind-backend/internal/pkg/response"
	"github.com/nextmind/nextmind-backend/internal/ratelimit"
	"go.uber.org/zap"
)

// allow runs the rate limiter for the client IP, sets the X-RateLimit
// headers, and writes a 429 when the window is exhausted. A limiter failure
// fails open: an unavailable counter store should degrade limiting, not take
// the API down.
func (s *Service) allow(c *gin.Context, op ratelimit.Op, maxRequests int, window time.Duration) bool {
	result, err := s.limiter.Check(c.Request.Context(), c.ClientIP(), op, maxRequests, window)
	if err != nil {
		s.logger.Warn("rate limit check failed",
			zap.String("op", string(op)),
			zap.Error(err),
		)
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset, 10))

	if !result.Success {
		response.ErrorWithCode(c, apperrors.ErrTooManyRequests)
		return false
	}
	return true
}
