package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Vikram2406/Hackathon-DQ/internal/config"
	"github.com/Vikram2406/Hackathon-DQ/internal/core"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
	"github.com/Vikram2406/Hackathon-DQ/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg := config.LoadOrDefault(cfgPath)

	client, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize reasoning client", zap.Error(err))
	}

	engine := core.NewEngine(cfg, client, logger)
	srv := server.NewServer(engine, logger)
	r := srv.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("starting server", zap.String("port", port), zap.String("provider", cfg.LLM.Provider))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
