// Package biz holds the report synthesis use case: language detection,
// prompt construction, model invocation, tolerant output parsing and report
// assembly.
package biz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/llm/gemini"
	apperrors "github.com/nextmind/nextmind-backend/internal/pkg/errors"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/nextmind/nextmind-backend/internal/report/types"
	"go.uber.org/zap"
)

// minAPIKeyLength is a plausibility floor for caller-supplied keys; real
// Gemini keys are well above it.
const minAPIKeyLength = 20

// ContentGenerator abstracts the model call.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model, apiKey, prompt string) (string, error)
}

// Synthesizer turns a query plus fetched sources into a canonical Report.
type Synthesizer struct {
	cfg    *conf.GeminiConfig
	llm    ContentGenerator
	logger *logger.Logger
	newID  func() string
	now    func() time.Time
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(cfg *conf.GeminiConfig, llm ContentGenerator, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		cfg:    cfg,
		llm:    llm,
		logger: log,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// resolveAPIKey selects between the backend-held secret and the caller's
// key, depending on deployment mode.
func (s *Synthesizer) resolveAPIKey(callerKey string) (string, error) {
	key := callerKey
	if s.cfg.UseBackendAPIKey {
		key = s.cfg.APIKey
	}
	if len(key) < minAPIKeyLength {
		return "", apperrors.New(apperrors.ErrReportMissingAPIKey)
	}
	return key, nil
}

// Synthesize builds the prompt, calls the model and normalizes its output
// into a Report. Language is taken from the request when valid, otherwise
// detected from the query.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, sources []types.SourceWithContent, model string, language types.Language, callerKey string) (*types.Report, error) {
	apiKey, err := s.resolveAPIKey(callerKey)
	if err != nil {
		return nil, err
	}

	if !language.Valid() {
		language = DetectLanguage(query)
	}

	prompt := BuildPrompt(query, sources, language)

	start := s.now()
	generated, err := s.llm.GenerateContent(ctx, model, apiKey, prompt)
	if err != nil {
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests {
				return nil, apperrors.Wrap(err, apperrors.ErrReportQuotaExhausted, apiErr.Message)
			}
			return nil, apperrors.Wrap(err, apperrors.ErrReportGeneration, apiErr.Message)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrReportGeneration)
	}

	obj, err := ParseReportObject(generated)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrReportGeneration, err.Error())
	}

	report := &types.Report{
		ID:                s.newID(),
		Title:             stringField(obj, "title"),
		Query:             query,
		Summary:           stringField(obj, "summary"),
		Introduction:      stringField(obj, "introduction"),
		Analysis:          stringField(obj, "analysis"),
		Conclusion:        stringField(obj, "conclusion"),
		LiteratureReview:  stringField(obj, "literature_review"),
		Methodology:       stringField(obj, "methodology"),
		Findings:          stringField(obj, "findings"),
		CriticalAppraisal: stringField(obj, "critical_appraisal"),
		Discussion:        stringField(obj, "discussion"),
		Recommendations:   stringField(obj, "recommendations"),
		References:        NormalizeReferences(obj["references"]),
		CreatedAt:         s.now().UTC().Format(time.RFC3339),
		Model:             model,
		Language:          string(language),
	}

	// Output that parsed but lacks required sections is a generation failure,
	// not a report. It must never reach the store: a persisted incomplete body
	// would occupy a history slot that reads silently drop.
	if missing := missingSections(report); len(missing) > 0 {
		return nil, apperrors.New(apperrors.ErrReportGeneration,
			fmt.Sprintf("model output missing required sections [%s], raw output: %s",
				strings.Join(missing, ", "), generated))
	}

	s.logger.Info("report synthesized",
		zap.String("report_id", report.ID),
		zap.String("model", model),
		zap.String("language", string(language)),
		zap.Int("sources", len(sources)),
		zap.Duration("took", s.now().Sub(start)),
	)

	return report, nil
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return s
}

// missingSections names the required sections the model left empty. ID, query
// and timestamps are assigned locally, so only model-produced fields can miss.
func missingSections(r *types.Report) []string {
	required := []struct {
		key   string
		value string
	}{
		{"title", r.Title},
		{"summary", r.Summary},
		{"introduction", r.Introduction},
		{"analysis", r.Analysis},
		{"conclusion", r.Conclusion},
	}

	var missing []string
	for _, section := range required {
		if section.value == "" {
			missing = append(missing, section.key)
		}
	}
	return missing
}
