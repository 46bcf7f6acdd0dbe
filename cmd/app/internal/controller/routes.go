package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"valid-assessment-backend/internal/service"
	"valid-assessment-backend/utilities"
)

func RegisterRoutes(
	r *gin.Engine,
	assessmentService service.AssessmentService,
	reportService service.ReportService,
	tokens *utilities.TokenIssuer,
	adminKey string,
	gatherer prometheus.Gatherer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Assessment routes.
	assessmentCtrl := NewAssessmentController(assessmentService, reportService)
	assessRoutes := r.Group("/assessments")
	{
		assessRoutes.POST("/start", assessmentCtrl.StartAssessment)
		assessRoutes.GET("/scenarios", assessmentCtrl.ListScenarios)

		records := assessRoutes.Group("/records", utilities.APIKeyMiddleware(adminKey))
		{
			records.GET("", assessmentCtrl.ListRecords)
			records.GET("/personas", assessmentCtrl.PersonaDistribution)
		}

		session := assessRoutes.Group("/:session_id", utilities.SessionAuthMiddleware(tokens))
		{
			session.POST("/answers", assessmentCtrl.SubmitAnswer)
			session.GET("/progress", assessmentCtrl.GetProgress)
			session.POST("/finalize", assessmentCtrl.Finalize)
			session.GET("/contexts/:scenario", assessmentCtrl.GetContextScores)
			session.GET("/report", assessmentCtrl.DownloadReport)
		}
	}
}
