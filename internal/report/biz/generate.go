package biz

import (
	"context"
	"time"

	"github.com/nextmind/nextmind-backend/internal/fetcher"
	apperrors "github.com/nextmind/nextmind-backend/internal/pkg/errors"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/nextmind/nextmind-backend/internal/report/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// fetchConcurrency bounds the per-request fetch fan-out.
	fetchConcurrency = 8

	// Save confirmation: a successful write that is not yet readable is
	// re-checked rather than trusted.
	confirmAttempts = 3
	confirmDelay    = 100 * time.Millisecond
)

// ContentFetcher resolves a URL into prompt text, degrading to sentinels.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) string
}

// ReportStore is the persistence surface the pipeline needs.
type ReportStore interface {
	Save(ctx context.Context, report *types.Report) error
	GetByID(ctx context.Context, id string) (*types.Report, error)
}

// SelectedResult is a search result the user curated into the report.
type SelectedResult struct {
	Title   string `json:"title" binding:"required"`
	Link    string `json:"link" binding:"required"`
	Snippet string `json:"snippet"`
}

// Generator runs the full pipeline: fetch fan-out, synthesis, persistence
// and read-after-write confirmation.
type Generator struct {
	synth   *Synthesizer
	fetcher ContentFetcher
	store   ReportStore
	logger  *logger.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(synth *Synthesizer, f ContentFetcher, store ReportStore, log *logger.Logger) *Generator {
	return &Generator{synth: synth, fetcher: f, store: store, logger: log}
}

// fetchSources resolves all selected results concurrently. Every source
// settles before synthesis starts; a slow or failed fetch degrades that one
// source, never the batch. When a fetch degrades to a sentinel, the search
// snippet is appended so the model still has some grounding for the source.
func (g *Generator) fetchSources(ctx context.Context, selected []SelectedResult) []types.SourceWithContent {
	sources := make([]types.SourceWithContent, len(selected))

	eg := errgroup.Group{}
	eg.SetLimit(fetchConcurrency)

	for i, result := range selected {
		eg.Go(func() error {
			content := g.fetcher.FetchContent(ctx, result.Link)
			if fetcher.IsSentinel(content) && result.Snippet != "" {
				content += "\nSnippet: " + result.Snippet
			}
			sources[i] = types.SourceWithContent{
				Title:   result.Title,
				Link:    result.Link,
				Snippet: result.Snippet,
				Content: content,
			}
			return nil
		})
	}
	// Fetches never fail, they degrade; Wait only synchronizes.
	_ = eg.Wait()

	return sources
}

// Generate runs the pipeline and returns the persisted report.
func (g *Generator) Generate(ctx context.Context, query string, selected []SelectedResult, model string, language types.Language, apiKey string) (*types.Report, error) {
	start := time.Now()

	sources := g.fetchSources(ctx, selected)

	report, err := g.synth.Synthesize(ctx, query, sources, model, language, apiKey)
	if err != nil {
		return nil, err
	}

	if err := g.store.Save(ctx, report); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrReportStorageFailed)
	}

	if err := g.confirmSaved(ctx, report.ID); err != nil {
		return nil, err
	}

	g.logger.Info("report generated",
		zap.String("report_id", report.ID),
		zap.Int("sources", len(selected)),
		zap.Duration("took", time.Since(start)),
	)

	return report, nil
}

// confirmSaved polls until the saved report is readable. A write the store
// acknowledged but cannot serve back is treated as a storage failure.
func (g *Generator) confirmSaved(ctx context.Context, id string) error {
	for attempt := 0; attempt < confirmAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(confirmDelay):
			case <-ctx.Done():
				return apperrors.Wrap(ctx.Err(), apperrors.ErrReportStorageFailed)
			}
		}

		report, err := g.store.GetByID(ctx, id)
		if err == nil && report != nil {
			return nil
		}
	}

	g.logger.Error("saved report not readable", zap.String("report_id", id))
	return apperrors.New(apperrors.ErrReportStorageFailed, "report not readable after save")
}
