package config

import (
	"fmt"
	"log"
	"os"

	"github.com/relatoria/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDatabase opens the database from a single DATABASE_URL DSN.
// InitDB prefers this path when DATABASE_URL is set.
func ConnectDatabase() (*gorm.DB, error) {
	return gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{})
}

func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	if os.Getenv("DATABASE_URL") != "" {
		db, err = ConnectDatabase()
	} else {
		dbHost := os.Getenv("DB_HOST")
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbPort := os.Getenv("DB_PORT")

		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			dbHost, dbUser, dbPassword, dbName, dbPort)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto Migrate models
	db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Report{}, &models.ReportImage{})

	return db
}
