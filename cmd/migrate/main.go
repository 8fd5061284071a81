// Command migrate applies schema migrations and exits.
package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found (falling back to system env)")
	}
	logger.Init(os.Getenv("LOG_LEVEL"))
	log := logger.WithComponent("migrate")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Error("DB open failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		log.Error("DB unreachable", "error", err)
		os.Exit(1)
	}

	if err := db.RunMigrations(conn); err != nil {
		log.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	log.Info("Migrations applied")
}
