// Package service exposes the HTTP surface: search, report generation and
// retrieval, export, metadata lookup and runtime config.
package service

import (
	"context"
	"time"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/fetcher"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/nextmind/nextmind-backend/internal/ratelimit"
	"github.com/nextmind/nextmind-backend/internal/report/biz"
	"github.com/nextmind/nextmind-backend/internal/report/types"
	searchtypes "github.com/nextmind/nextmind-backend/internal/websearch/types"
)

// SearchProvider is the search surface the service consumes.
type SearchProvider interface {
	Search(ctx context.Context, req *searchtypes.SearchRequest) (*searchtypes.SearchResponse, error)
	Validate() error
}

// ReportStore is the persistence surface the handlers need.
type ReportStore interface {
	GetByID(ctx context.Context, id string) (*types.Report, error)
	GetAll(ctx context.Context) ([]*types.Report, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RateLimiter decides whether a request proceeds.
type RateLimiter interface {
	Check(ctx context.Context, identity string, op ratelimit.Op, maxRequests int, window time.Duration) (*ratelimit.Result, error)
}

// Service wires the handlers to their collaborators.
type Service struct {
	cfg       *conf.Config
	search    SearchProvider
	generator *biz.Generator
	store     ReportStore
	limiter   RateLimiter
	fetcher   *fetcher.Fetcher
	logger    *logger.Logger
}

// New creates the HTTP service.
func New(cfg *conf.Config, search SearchProvider, generator *biz.Generator, store ReportStore, limiter RateLimiter, f *fetcher.Fetcher, log *logger.Logger) *Service {
	return &Service{
		cfg:       cfg,
		search:    search,
		generator: generator,
		store:     store,
		limiter:   limiter,
		fetcher:   f,
		logger:    log,
	}
}
