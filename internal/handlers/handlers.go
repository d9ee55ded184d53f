package handlers

import (
	"embed"
	"html/template"
	"os"

	"github.com/felo/chatsnap/internal/config"
	"github.com/felo/chatsnap/internal/history"
	"github.com/felo/chatsnap/internal/scanner"
)

// Handlers holds all HTTP handlers and their dependencies
type Handlers struct {
	store     *history.Store
	cfg       *config.Config
	snaps     *scanner.Scanner
	templates *template.Template
	shutdown  chan<- os.Signal
}

// New creates a new Handlers instance
func New(store *history.Store, cfg *config.Config) *Handlers {
	return &Handlers{
		store: store,
		cfg:   cfg,
		snaps: scanner.NewScanner(cfg.SnapshotsPath),
	}
}

// SetShutdownChannel wires the POST /shutdown route to the main signal loop
func (h *Handlers) SetShutdownChannel(ch chan<- os.Signal) {
	h.shutdown = ch
}

// LoadTemplates loads HTML templates from embedded filesystem
func (h *Handlers) LoadTemplates(embeddedFiles embed.FS) error {
	tmpl, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return err
	}
	h.templates = tmpl
	return nil
}
