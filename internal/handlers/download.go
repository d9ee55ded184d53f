package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/felo/chatsnap/internal/history"
)

// Download serves a recorded conversion artifact as an attachment.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookupEntry(w, r)
	if !ok {
		return
	}

	data, err := os.ReadFile(entry.OutputPath)
	if err != nil {
		log.Printf("Failed to read artifact %s: %v", entry.OutputPath, err)
		http.Error(w, "Artifact file no longer exists", http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", entry.MIME)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(entry.OutputName)))
	w.Write(data)
}

// previewMarkdown renders recorded Markdown artifacts to HTML for the
// in-browser preview. GFM tables are the only extension the transcripts need.
var previewMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Preview shows a recorded artifact in the browser: Markdown is rendered,
// plain text is wrapped in <pre>, HTML artifacts are served as-is.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookupEntry(w, r)
	if !ok {
		return
	}

	data, err := os.ReadFile(entry.OutputPath)
	if err != nil {
		log.Printf("Failed to read artifact %s: %v", entry.OutputPath, err)
		http.Error(w, "Artifact file no longer exists", http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch {
	case strings.HasPrefix(entry.MIME, "text/markdown"):
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(htmlEscape(entry.OutputName))
		b.WriteString("</title></head><body>")
		if err := previewMarkdown.Convert(data, &b); err != nil {
			http.Error(w, "Failed to render preview", http.StatusInternalServerError)
			return
		}
		b.WriteString("</body></html>")
		fmt.Fprint(w, b.String())
	case strings.HasPrefix(entry.MIME, "text/plain"):
		fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body><pre>%s</pre></body></html>",
			htmlEscape(entry.OutputName), htmlEscape(string(data)))
	default:
		w.Write(data)
	}
}

func (h *Handlers) lookupEntry(w http.ResponseWriter, r *http.Request) (*history.Entry, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversion ID", http.StatusBadRequest)
		return nil, false
	}
	e, err := h.store.Get(id)
	if err != nil {
		http.Error(w, "Failed to load conversion", http.StatusInternalServerError)
		return nil, false
	}
	if e == nil {
		http.Error(w, "Conversion not found", http.StatusNotFound)
		return nil, false
	}
	return e, true
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
