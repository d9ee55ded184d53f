package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/felo/chatsnap/internal/config"
	"github.com/felo/chatsnap/internal/handlers"
	"github.com/felo/chatsnap/internal/history"
	"github.com/felo/chatsnap/web"
)

func main() {
	// Load configuration
	cfg := config.Default()

	// Open conversion history database
	store, err := history.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	log.Printf("Database opened at: %s", cfg.DBPath)
	log.Printf("Snapshots folder: %s", cfg.SnapshotsPath)
	log.Printf("Output folder: %s", cfg.OutputPath)

	// The snapshots folder is optional but creating it up front makes the
	// drop-files-here workflow obvious on first run
	if _, err := os.Stat(cfg.SnapshotsPath); os.IsNotExist(err) {
		if err := os.MkdirAll(cfg.SnapshotsPath, 0755); err != nil {
			log.Printf("Warning: failed to create snapshots folder: %v", err)
		} else {
			log.Printf("Created snapshots folder at: %s", cfg.SnapshotsPath)
		}
	}

	// Create shutdown signal channel
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize handlers with embedded templates
	h := handlers.New(store, cfg)
	h.SetShutdownChannel(sigChan)
	if err := h.LoadTemplates(web.Assets); err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Set up router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Routes
	r.Get("/", h.Index)
	r.Post("/convert", h.Convert)
	r.Get("/download/{id}", h.Download)
	r.Get("/preview/{id}", h.Preview)
	r.Post("/shutdown", h.Shutdown)

	// Static files from embedded assets
	staticFS, err := fs.Sub(web.Assets, "static")
	if err != nil {
		log.Fatalf("Failed to get static files: %v", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Create server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      r,
		ReadTimeout:  60 * time.Second, // Large MHTML uploads take a while
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.URL())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Auto-open browser
	time.Sleep(500 * time.Millisecond) // Give server time to start
	if err := openBrowser(cfg.URL()); err != nil {
		log.Printf("Failed to open browser: %v", err)
		log.Printf("Please open your browser and navigate to: %s", cfg.URL())
	} else {
		log.Printf("Browser opened at: %s", cfg.URL())
	}

	// Wait for interrupt signal
	<-sigChan
	log.Println("\nShutting down gracefully...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// openBrowser opens the default browser to the specified URL
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
