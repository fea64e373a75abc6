package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/relatoria/api-go/controllers"
	"github.com/relatoria/api-go/middleware"
)

func SetupAdminRoutes(r *gin.Engine, adminController *controllers.AdminController) {
	admin := r.Group("/admin/relatorios")
	admin.Use(middleware.AuthMiddleware(), middleware.StaffRequired())
	{
		admin.GET("", adminController.ListReports)
		admin.GET("/:id", adminController.GetReportDetail)
		admin.DELETE("/:id", adminController.DeleteReport)
		admin.DELETE("/:id/imagens/:imageId", adminController.DeleteImage)
	}
}
