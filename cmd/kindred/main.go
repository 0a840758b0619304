package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/auth"
	"github.com/kindred-dev/kindred/internal/recommendations"
	"github.com/kindred-dev/kindred/internal/router"
	"github.com/kindred-dev/kindred/internal/sweeper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	recommendationSweeper := sweeper.NewSweeper(recommendations.NewEngine(db.DB), time.Hour)
	recommendationSweeper.Start()
	defer recommendationSweeper.Stop()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
