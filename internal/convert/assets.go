package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// imageExts maps resource MIME types to the extension extracted files get.
var imageExts = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// DirSink saves extracted images and inline SVGs into a directory as
// sequentially numbered files (img001.png, svg001.svg, ...). It implements
// markdown.AssetSink; returned paths are relative file names suitable for
// Markdown links next to the transcript.
type DirSink struct {
	dir    string
	imgSeq int
	svgSeq int
}

// NewDirSink creates the directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) SaveImage(contentType string, data []byte) (string, error) {
	ext, ok := imageExts[contentType]
	if !ok {
		ext = ".bin"
	}
	s.imgSeq++
	name := fmt.Sprintf("img%03d%s", s.imgSeq, ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", err
	}
	return name, nil
}

func (s *DirSink) SaveSVG(markup string) (string, error) {
	s.svgSeq++
	name := fmt.Sprintf("svg%03d.svg", s.svgSeq)
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(NormalizeSVG(markup)), 0644); err != nil {
		return "", err
	}
	return name, nil
}

// svgAttrCase restores the camel-cased SVG attribute names that HTML
// parsers lower-case; standalone SVG viewers reject the lower-cased forms.
var svgAttrCase = map[string]string{
	"viewbox=":             "viewBox=",
	"markerwidth=":         "markerWidth=",
	"markerheight=":        "markerHeight=",
	"refx=":                "refX=",
	"refy=":                "refY=",
	"preserveaspectratio=": "preserveAspectRatio=",
	"baseprofile=":         "baseProfile=",
	"clippathunits=":       "clipPathUnits=",
	"gradientunits=":       "gradientUnits=",
	"gradienttransform=":   "gradientTransform=",
	"patternunits=":        "patternUnits=",
	"patterncontentunits=": "patternContentUnits=",
	"patterntransform=":    "patternTransform=",
	"maskunits=":           "maskUnits=",
	"maskcontentunits=":    "maskContentUnits=",
	"contentscripttype=":   "contentScriptType=",
	"contentstyletype=":    "contentStyleType=",
}

var svgAttrRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(svgAttrCase))
	for low := range svgAttrCase {
		res[low] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(low))
	}
	return res
}()

// NormalizeSVG repairs extracted inline SVG markup for standalone use:
// camel-cased attribute names are restored and an XML declaration is
// prepended when absent.
func NormalizeSVG(markup string) string {
	fixed := markup
	for low, camel := range svgAttrCase {
		fixed = svgAttrRes[low].ReplaceAllString(fixed, camel)
	}
	head := fixed
	if len(head) > 80 {
		head = head[:80]
	}
	if !strings.Contains(head, "<?xml") {
		fixed = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" + fixed
	}
	return fixed
}
