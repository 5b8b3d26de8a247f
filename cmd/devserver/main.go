package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/prepsom/levelplay/internal/app"
	"github.com/prepsom/levelplay/internal/config"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := app.NewDevServer(cfg)
	if err != nil {
		log.Fatalf("failed to build devserver: %v", err)
	}

	if err := srv.Run(context.Background()); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
