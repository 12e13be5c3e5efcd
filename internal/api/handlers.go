package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/catalog"
	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/history"
	"github.com/symptom-triage-server/internal/report"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// analyzeResponse is the POST /analyze payload: the analysis plus the
// check ID it was stored under.
type analyzeResponse struct {
	CheckID  string                 `json:"check_id"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}

// checkSummary is the compact listing shape for past checks.
type checkSummary struct {
	CheckID              string           `json:"check_id"`
	Age                  int              `json:"age"`
	Symptoms             []string         `json:"symptoms"`
	Severity             domain.Severity  `json:"severity"`
	RiskLevel            domain.RiskLevel `json:"risk_level"`
	SeekMedicalAttention bool             `json:"seek_medical_attention"`
	UsingAI              bool             `json:"using_ai"`
	CreatedAt            time.Time        `json:"created_at"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	components := gin.H{
		"analyzer": s.config.Analyzer.Strategy,
		"database": s.config.Database.Driver,
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Health(c.Request.Context()); err != nil {
			status = "degraded"
			components["database_error"] = err.Error()
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC(),
		"version":    "1.0.0",
	})
}

// handleAnalyze runs one symptom analysis and stores the result.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput,
			"Invalid request body",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput,
			"Invalid analysis request",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	result := s.deps.Analyzer.Analyze(c.Request.Context(), &req)

	checkID := uuid.New().String()
	record := &history.CheckRecord{
		CheckID:              checkID,
		Age:                  req.Age,
		Gender:               req.Gender,
		Symptoms:             req.Symptoms,
		Duration:             req.Duration,
		Severity:             req.Severity,
		AdditionalInfo:       req.AdditionalInfo,
		UsingAI:              s.config.Analyzer.Strategy == "openai",
		Result:               result,
		RiskLevel:            result.RiskLevel,
		SeekMedicalAttention: result.SeekMedicalAttention,
	}

	// Persistence is best effort: an analysis the user can read beats a
	// 500 because the disk was full. Fail-safe results are not stored.
	if !result.Error {
		if err := s.deps.Store.Save(c.Request.Context(), record); err != nil {
			s.log.WithFields(logrus.Fields{
				"check_id": checkID,
				"error":    err,
			}).Warn("Failed to persist symptom check")
		}
	}

	c.JSON(http.StatusOK, analyzeResponse{
		CheckID:  checkID,
		Analysis: result,
	})
}

// handleSymptoms returns the selectable inputs for building a request.
func (s *Server) handleSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"body_systems":    catalog.BodySystems(),
		"common_symptoms": catalog.CommonSymptoms(),
		"severities":      domain.Severities(),
		"durations":       domain.Durations(),
	})
}

// handleListChecks returns past checks, newest first.
func (s *Server) handleListChecks(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	checks, err := s.deps.Store.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.serverError(c, "Failed to list checks", err)
		return
	}

	total, err := s.deps.Store.Count(c.Request.Context())
	if err != nil {
		s.serverError(c, "Failed to count checks", err)
		return
	}

	summaries := make([]checkSummary, 0, len(checks))
	for _, check := range checks {
		summaries = append(summaries, checkSummary{
			CheckID:              check.CheckID,
			Age:                  check.Age,
			Symptoms:             check.Symptoms,
			Severity:             check.Severity,
			RiskLevel:            check.RiskLevel,
			SeekMedicalAttention: check.SeekMedicalAttention,
			UsingAI:              check.UsingAI,
			CreatedAt:            check.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"checks": summaries,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// handleGetCheck returns one stored check in full.
func (s *Server) handleGetCheck(c *gin.Context) {
	check, ok := s.loadCheck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, check)
}

// handleDeleteCheck removes one stored check.
func (s *Server) handleDeleteCheck(c *gin.Context) {
	if _, ok := s.loadCheck(c); !ok {
		return
	}

	if err := s.deps.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.serverError(c, "Failed to delete check", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleCheckReport renders one stored check as a printable HTML report.
func (s *Server) handleCheckReport(c *gin.Context) {
	check, ok := s.loadCheck(c)
	if !ok {
		return
	}

	html, err := s.reporter.GenerateHTML(check)
	if err != nil {
		s.serverError(c, "Failed to render report", err)
		return
	}

	filename := report.Filename(check.CheckID, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// handleExport streams the full check history as JSON.
func (s *Server) handleExport(c *gin.Context) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="symptom_checks_export.json"`)

	if err := s.deps.Store.ExportJSON(c.Request.Context(), c.Writer); err != nil {
		s.log.WithError(err).Error("Failed to export check history")
		// Headers are already out; nothing sensible left to send.
	}
}

// loadCheck fetches the check named in the path, writing the error response
// itself when the lookup fails.
func (s *Server) loadCheck(c *gin.Context) (*history.CheckRecord, bool) {
	check, err := s.deps.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.NewAPIError(
				domain.ErrCodeNotFound,
				"Check not found",
				"",
				c.GetString("correlation_id"),
			))
			return nil, false
		}
		s.serverError(c, "Failed to load check", err)
		return nil, false
	}
	return check, true
}

func (s *Server) serverError(c *gin.Context, message string, err error) {
	s.log.WithFields(logrus.Fields{
		"path":  c.FullPath(),
		"error": err,
	}).Error(message)

	c.JSON(http.StatusInternalServerError, domain.NewAPIError(
		domain.ErrCodeInternalServer,
		message,
		"",
		c.GetString("correlation_id"),
	))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
