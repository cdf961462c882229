package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spinshelf/spinshelf-backend/internal/app"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	a, err := app.New(log, cfg)
	if err != nil {
		log.Fatal("startup failed", "err", err.Error())
	}
	if err := a.Run(); err != nil {
		log.Fatal("server exited", "err", err.Error())
	}
}
