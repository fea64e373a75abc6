package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/relatoria/api-go/controllers"
	"github.com/relatoria/api-go/middleware"
)

// SetupReportRoutes wires the public report surface. Every route takes both
// logged-in and anonymous traffic, so auth is optional here: the handlers
// decide from the principal (or claim token) what the requester may do.
func SetupReportRoutes(r *gin.Engine, reportController *controllers.ReportController) {
	reports := r.Group("/relatorios")
	reports.Use(middleware.OptionalAuthMiddleware())
	{
		reports.GET("/criar", reportController.NewReportForm)
		reports.POST("/criar", reportController.CreateReport)
		reports.GET("/meus", reportController.MyReports)
		reports.GET("/:id", reportController.GetReportDetail)
	}
}
