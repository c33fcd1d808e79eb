package service

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nextmind/nextmind-backend/internal/pkg/errors"
	"github.com/nextmind/nextmind-backend/internal/pkg/response"
	"github.com/nextmind/nextmind-backend/internal/ratelimit"
	"github.com/nextmind/nextmind-backend/internal/report/biz"
	"github.com/nextmind/nextmind-backend/internal/report/export"
	"github.com/nextmind/nextmind-backend/internal/report/types"
	"go.uber.org/zap"
)

// GenerateRequest is the body of POST /api/v1/reports.
type GenerateRequest struct {
	Query           string               `json:"query" binding:"required"`
	SelectedResults []biz.SelectedResult `json:"selectedResults" binding:"required,min=1,dive"`
	Model           string               `json:"model" binding:"required"`
	Language        string               `json:"language"`
	APIKey          string               `json:"apiKey"`
}

// Generate handles POST /api/v1/reports.
func (s *Service) Generate(c *gin.Context) {
	if !s.allow(c, ratelimit.OpGenerate, s.cfg.RateLimit.GenerateMax, s.cfg.RateLimit.GenerateWindow) {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrReportInvalidInput, err.Error())
		return
	}

	if !slices.Contains(s.cfg.Gemini.AllowedModels, req.Model) {
		response.ErrorWithCode(c, apperrors.ErrReportInvalidModel, req.Model)
		return
	}

	report, err := s.generator.Generate(c.Request.Context(), req.Query, req.SelectedResults, req.Model, types.Language(req.Language), req.APIKey)
	if err != nil {
		s.logger.Error("report generation failed",
			zap.String("query", req.Query),
			zap.String("model", req.Model),
			zap.Error(err),
		)
		response.HandleError(c, err)
		return
	}

	response.Created(c, gin.H{
		"reportId": report.ID,
		"report":   report,
	})
}

// ListReports handles GET /api/v1/reports.
func (s *Service) ListReports(c *gin.Context) {
	reports, err := s.store.GetAll(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list reports", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrReportStorageFailed)
		return
	}
	response.Success(c, gin.H{"reports": reports})
}

// GetReport handles GET /api/v1/reports/:id. Corrupted and missing reports
// are both 404: the store does not distinguish them.
func (s *Service) GetReport(c *gin.Context) {
	report, err := s.loadReport(c)
	if err != nil || report == nil {
		return
	}
	response.Success(c, report)
}

// DeleteReport handles DELETE /api/v1/reports/:id. Idempotent.
func (s *Service) DeleteReport(c *gin.Context) {
	id := c.Param("id")

	deleted, err := s.store.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("failed to delete report", zap.String("report_id", id), zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrReportStorageFailed)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// ExportReport handles GET /api/v1/reports/:id/export?format=.
func (s *Service) ExportReport(c *gin.Context) {
	report, err := s.loadReport(c)
	if err != nil || report == nil {
		return
	}

	filename := "report-" + report.ID

	switch c.DefaultQuery("format", "markdown") {
	case "markdown":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".md"))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown(report)))

	case "html":
		page, err := export.HTML(report)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrReportExportFailed, err.Error())
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))

	case "docx":
		data, err := export.DOCX(report)
		if err != nil {
			s.logger.Error("docx export failed", zap.String("report_id", report.ID), zap.Error(err))
			response.ErrorWithCode(c, apperrors.ErrReportExportFailed)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".docx"))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)

	default:
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, "unsupported export format")
	}
}

// loadReport resolves :id, writing the error response itself on failure.
func (s *Service) loadReport(c *gin.Context) (*types.Report, error) {
	id := c.Param("id")

	report, err := s.store.GetByID(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("failed to load report", zap.String("report_id", id), zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrReportStorageFailed)
		return nil, err
	}
	if report == nil {
		response.ErrorWithCode(c, apperrors.ErrReportNotFound)
		return nil, nil
	}
	return report, nil
}
