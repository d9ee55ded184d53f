package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/felo/chatsnap/internal/convert"
	"github.com/felo/chatsnap/internal/history"
	"github.com/felo/chatsnap/internal/mhtml"
)

// maxUploadBytes caps uploaded snapshot size. Browser exports of long
// conversations with inlined media run tens of megabytes.
const maxUploadBytes = 256 << 20

type kindOption struct {
	Value       string
	Description string
}

func kindOptions() []kindOption {
	infos := convert.Kinds()
	opts := make([]kindOption, 0, len(infos))
	for _, info := range infos {
		opts = append(opts, kindOption{Value: string(info.Kind), Description: info.Description})
	}
	return opts
}

// Convert handles a conversion request: an uploaded file or a file picked
// from the snapshots folder, plus a converter kind. The artifact is written
// under the output folder and the conversion is recorded in history.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	kind, err := convert.ParseKind(r.FormValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, inputName, err := h.readInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outputName := strings.TrimSpace(r.FormValue("output"))
	if outputName == "" {
		outputName = convert.OutputName(inputName, kind)
	}
	if err := convert.ValidateOutputName(outputName); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := convert.Request{
		Input:     input,
		Kind:      kind,
		InputName: inputName,
	}
	if kind == convert.KindQAMarkdownAssets {
		base := strings.TrimSuffix(outputName, filepath.Ext(outputName))
		req.AssetsDir = filepath.Join(h.cfg.OutputPath, base+"_assets")
	}

	artifact, err := convert.Run(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, mhtml.ErrMalformedMIME) || errors.Is(err, mhtml.ErrMissingHTMLPart) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, "Conversion failed: "+err.Error(), status)
		return
	}

	if err := os.MkdirAll(h.cfg.OutputPath, 0755); err != nil {
		http.Error(w, "Failed to create output directory", http.StatusInternalServerError)
		return
	}
	outputPath := filepath.Join(h.cfg.OutputPath, outputName)
	if err := os.WriteFile(outputPath, artifact.Bytes, 0644); err != nil {
		http.Error(w, "Failed to write output file", http.StatusInternalServerError)
		return
	}

	entry := &history.Entry{
		InputName:   inputName,
		Kind:        string(kind),
		OutputName:  outputName,
		OutputPath:  outputPath,
		MIME:        artifact.MIME,
		Turns:       artifact.TurnCount(),
		Diagnostics: artifact.Diagnostics,
	}
	id, err := h.store.Add(entry)
	if err != nil {
		log.Printf("History insert error: %v", err)
	}
	entry.ID = id

	data := map[string]interface{}{
		"PageTitle":   "변환 완료 - ChatSnap",
		"Entry":       entry,
		"Diagnostics": splitLines(artifact.Diagnostics),
		"Size":        len(artifact.Bytes),
		"CanPreview":  id > 0,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "result.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// readInput returns the conversion input bytes and name, preferring an
// uploaded file over a snapshots-folder pick.
func (h *Handlers) readInput(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("failed to read uploaded file")
		}
		return data, filepath.Base(header.Filename), nil
	}

	snapshot := strings.TrimSpace(r.FormValue("snapshot"))
	if snapshot == "" {
		return nil, "", errors.New("no file uploaded and no snapshot selected")
	}
	full, err := h.snaps.Resolve(snapshot)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, "", errors.New("failed to read snapshot " + snapshot)
	}
	return data, filepath.Base(full), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
