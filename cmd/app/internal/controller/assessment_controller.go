package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/repository"
	"valid-assessment-backend/internal/service"
	"valid-assessment-backend/utilities"
)

type AssessmentController struct {
	AssessmentService service.AssessmentService
	ReportService     service.ReportService
}

func NewAssessmentController(assessmentService service.AssessmentService, reportService service.ReportService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService, ReportService: reportService}
}

// respondError maps service and core errors to status codes.
func respondError(c *gin.Context, err error) {
	var incomplete *assessment.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusConflict, gin.H{"error": "assessment incomplete", "missing": incomplete.Missing})
	case errors.Is(err, assessment.ErrInvalidAnswerValue),
		errors.Is(err, assessment.ErrUnknownQuestionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownScenario):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, assessment.ErrSessionCompleted),
		errors.Is(err, service.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoDatabase):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		utilities.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (ac *AssessmentController) StartAssessment(c *gin.Context) {
	var req struct {
		Demographics assessment.Demographics `json:"demographics"`
	}
	// An empty body starts an anonymous session.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}
	started, err := ac.AssessmentService.StartSession(c.Request.Context(), req.Demographics)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, started)
}

func (ac *AssessmentController) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		Value      *int   `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: question_id and value are required"})
		return
	}
	progress, err := ac.AssessmentService.SubmitAnswer(c.Request.Context(), c.Param("session_id"), req.QuestionID, *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (ac *AssessmentController) GetProgress(c *gin.Context) {
	progress, err := ac.AssessmentService.Progress(c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (ac *AssessmentController) Finalize(c *gin.Context) {
	out, err := ac.AssessmentService.Finalize(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AssessmentController) GetContextScores(c *gin.Context) {
	scenario := c.Param("scenario")
	scores, err := ac.AssessmentService.ContextScores(c.Param("session_id"), scenario)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenario": scenario, "scores": scores})
}

func (ac *AssessmentController) ListScenarios(c *gin.Context) {
	out := make([]assessment.Scenario, 0)
	for _, name := range assessment.ScenarioNames() {
		sc, _ := assessment.LookupScenario(name)
		out = append(out, sc)
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AssessmentController) DownloadReport(c *gin.Context) {
	ev, err := ac.AssessmentService.Completed(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := ac.ReportService.Render(*ev)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", ev.Snapshot.SessionID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// recordFilter reads persona, verdict, since and until (RFC 3339) and limit.
func recordFilter(c *gin.Context) (repository.RecordFilter, error) {
	f := repository.RecordFilter{
		Persona: c.Query("persona"),
		Verdict: c.Query("verdict"),
	}
	if s := c.Query("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, fmt.Errorf("since must be RFC 3339: %w", err)
		}
		f.Since = t
	}
	if s := c.Query("until"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, fmt.Errorf("until must be RFC 3339: %w", err)
		}
		f.Until = t
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

func (ac *AssessmentController) ListRecords(c *gin.Context) {
	f, err := recordFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := ac.AssessmentService.ListRecords(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (ac *AssessmentController) PersonaDistribution(c *gin.Context) {
	f, err := recordFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	counts, err := ac.AssessmentService.PersonaDistribution(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
