package handlers

import (
	"log"
	"net/http"
	"os"
)

// Shutdown stops the server from the browser. The web runner is a local
// tool; the shutdown button is the supported way to quit it on machines
// where it runs without a terminal.
func (h *Handlers) Shutdown(w http.ResponseWriter, r *http.Request) {
	if h.shutdown == nil {
		http.Error(w, "Shutdown not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("서버를 종료합니다."))

	log.Println("Shutdown requested via web interface")
	go func() {
		h.shutdown <- os.Interrupt
	}()
}
