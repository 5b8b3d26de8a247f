package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prepsom/levelplay/internal/app"
	"github.com/prepsom/levelplay/internal/config"
	"github.com/prepsom/levelplay/internal/play"
)

func main() {
	levelID := flag.String("level", "", "Level id to play")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}
	if *levelID == "" {
		log.Fatal("missing -level")
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(bootCtx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	instance, err := app.New(bootCtx, cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_, runErr := instance.PlayLevel(ctx, *levelID, os.Stdin, os.Stdout)
	stop()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := instance.Close(closeCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	if runErr != nil && !errors.Is(runErr, play.ErrQuit) && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("runtime error: %v", runErr)
	}
}
