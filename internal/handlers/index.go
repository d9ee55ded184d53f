package handlers

import (
	"log"
	"net/http"
)

// Index handles the home page: converter list, snapshot folder contents,
// and recent conversion history.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.snaps.Scan()
	if err != nil {
		log.Printf("Snapshot scan error: %v", err)
		// An unreadable snapshots folder should not take down the page
		snaps = nil
	}

	recent, err := h.store.Recent(20)
	if err != nil {
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"PageTitle": "ChatSnap 변환기",
		"Kinds":     kindOptions(),
		"Snapshots": snaps,
		"Recent":    recent,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
