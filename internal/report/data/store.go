// Package data persists reports in Redis: one JSON body per report plus a
// bounded most-recent-first id list.
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/nextmind/nextmind-backend/internal/pkg/redis"
	"github.com/nextmind/nextmind-backend/internal/report/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	reportKeyPrefix = "nextmind:report:"
	reportListKey   = "nextmind:reports:list"

	// DefaultMaxReports bounds the retained history. Older ids fall off the
	// list; their bodies become unreachable, which is acceptable for a
	// recency-oriented history.
	DefaultMaxReports = 50
)

// KV is the subset of Redis operations the store uses.
type KV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	LPush(ctx context.Context, key string, values ...interface{}) (int64, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LRem(ctx context.Context, key string, count int64, value interface{}) (int64, error)
}

// Store reads and writes reports.
type Store struct {
	kv         KV
	logger     *logger.Logger
	maxReports int
}

// NewStore creates a report store. maxReports <= 0 selects the default cap.
func NewStore(kv KV, log *logger.Logger, maxReports int) *Store {
	if maxReports <= 0 {
		maxReports = DefaultMaxReports
	}
	return &Store{kv: kv, logger: log, maxReports: maxReports}
}

func reportKey(id string) string {
	return reportKeyPrefix + id
}

// Save writes the report body and pushes its id to the front of the history
// list, trimming the list to the retention cap.
func (s *Store) Save(ctx context.Context, report *types.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := s.kv.Set(ctx, reportKey(report.ID), string(body), 0); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	if _, err := s.kv.LPush(ctx, reportListKey, report.ID); err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}
	if err := s.kv.LTrim(ctx, reportListKey, 0, int64(s.maxReports)-1); err != nil {
		return fmt.Errorf("failed to trim report list: %w", err)
	}

	s.logger.Info("report saved", zap.String("report_id", report.ID))
	return nil
}

// GetByID loads a report. It returns (nil, nil) when the id is unknown or the
// stored value is corrupted: callers cannot distinguish the two, and are not
// meant to.
func (s *Store) GetByID(ctx context.Context, id string) (*types.Report, error) {
	raw, err := s.kv.Get(ctx, reportKey(id))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	report := decodeReport(raw)
	if !report.Valid() {
		s.logger.Warn("discarding corrupted report", zap.String("report_id", id))
		return nil, nil
	}
	return report, nil
}

// GetAll resolves every listed id in parallel, dropping entries that are
// missing or corrupted so one bad record never fails the whole listing.
func (s *Store) GetAll(ctx context.Context) ([]*types.Report, error) {
	ids, err := s.kv.LRange(ctx, reportListKey, 0, -1)
	if err != nil {
		if redis.IsNil(err) {
			return []*types.Report{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	slots := make([]*types.Report, len(ids))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		g.Go(func() error {
			report, err := s.GetByID(gctx, id)
			if err != nil {
				return err
			}
			slots[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := make([]*types.Report, 0, len(slots))
	for _, report := range slots {
		if report != nil {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// Delete removes the report body and its list entry. Deleting an unknown id
// is a no-op; the returned bool reports whether a body existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.kv.Del(ctx, reportKey(id))
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}
	if _, err := s.kv.LRem(ctx, reportListKey, 0, id); err != nil {
		return false, fmt.Errorf("failed to unindex report: %w", err)
	}
	return deleted > 0, nil
}

// decodeReport parses a stored body, falling back to a lenient field-by-field
// read when strict decoding fails. The result may still be invalid; the
// caller checks Valid.
func decodeReport(raw string) *types.Report {
	var report types.Report
	if err := json.Unmarshal([]byte(raw), &report); err == nil {
		return &report
	}

	// gjson tolerates trailing commas and other minor damage; fields it
	// cannot find come back empty and fail validation upstream.
	parsed := gjson.Parse(raw)
	report = types.Report{
		ID:                parsed.Get("id").String(),
		Title:             parsed.Get("title").String(),
		Query:             parsed.Get("query").String(),
		Summary:           parsed.Get("summary").String(),
		Introduction:      parsed.Get("introduction").String(),
		Analysis:          parsed.Get("analysis").String(),
		Conclusion:        parsed.Get("conclusion").String(),
		LiteratureReview:  parsed.Get("literature_review").String(),
		Methodology:       parsed.Get("methodology").String(),
		Findings:          parsed.Get("findings").String(),
		CriticalAppraisal: parsed.Get("critical_appraisal").String(),
		Discussion:        parsed.Get("discussion").String(),
		Recommendations:   parsed.Get("recommendations").String(),
		CreatedAt:         parsed.Get("createdAt").String(),
		Model:             parsed.Get("model").String(),
		Language:          parsed.Get("language").String(),
	}
	if refs := parsed.Get("references"); refs.IsArray() {
		report.References = []string{}
		refs.ForEach(func(_, value gjson.Result) bool {
			report.References = append(report.References, value.String())
			return true
		})
	}
	return &report
}
