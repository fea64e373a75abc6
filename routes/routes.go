package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/relatoria/api-go/config"
	"github.com/relatoria/api-go/controllers"
	"github.com/relatoria/api-go/storage"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, store storage.ImageStore, upload *config.UploadConfig) {
	// Initialize controllers
	pagesController := controllers.NewPagesController()
	authController := controllers.NewAuthController(db)
	reportController := controllers.NewReportController(db, store, upload)
	adminController := controllers.NewAdminController(db, store)

	// Static pages
	r.GET("/", pagesController.Home)
	r.GET("/sobre", pagesController.Sobre)
	r.GET("/contato", pagesController.Contato)

	// Authentication
	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)
	r.POST("/logout", authController.Logout)
	r.POST("/refresh-token", authController.RefreshToken)
	r.POST("/auth/google", authController.GoogleLogin)

	SetupReportRoutes(r, reportController)
	SetupAdminRoutes(r, adminController)
}
