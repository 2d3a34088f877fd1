package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/ollama"
	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/tavily"
	"github.com/gibsondevhouse/obsidian-cobra/internal/config"
	store "github.com/gibsondevhouse/obsidian-cobra/internal/repository"
	"github.com/gibsondevhouse/obsidian-cobra/internal/service"
	transport "github.com/gibsondevhouse/obsidian-cobra/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chat backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Ollama URL: %s", cfg.OllamaBaseURL)
	log.Printf("Default Model: %s", cfg.DefaultModel)

	// Initialize store; a failed migration aborts startup.
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize upstream clients
	ollamaClient := ollama.NewClient(cfg.OllamaBaseURL, cfg.LLMTimeout)
	searchClient := tavily.NewClient(cfg.TavilyBaseURL, cfg.TavilyAPIKey, 30*time.Second)

	// Initialize service
	svc := service.New(db, ollamaClient, searchClient, cfg)

	// Create HTTP server
	server := transport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat backend stopped")
}
