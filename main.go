package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/relatoria/api-go/config"
	"github.com/relatoria/api-go/middleware"
	"github.com/relatoria/api-go/routes"
	"github.com/relatoria/api-go/storage"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	debug := strings.ToLower(os.Getenv("DEBUG"))
	if debug == "" || debug == "false" || debug == "0" || debug == "no" || debug == "off" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db := config.InitDB()

	// Initialize image storage
	store, err := storage.NewStore(config.GetStorageConfig())
	if err != nil {
		log.Fatal("Failed to initialize image storage:", err)
	}

	// Create a new Gin router
	r := gin.Default()
	r.Use(middleware.AllowedHosts())

	// Initialize routes
	routes.SetupRoutes(r, db, store, config.GetUploadConfig())

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
