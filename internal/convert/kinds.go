// Package convert is the engine's single entry point: raw snapshot bytes
// in, one output artifact out, with a diagnostics log on the side.
package convert

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownConverter  = errors.New("unknown converter kind")
	ErrInvalidOutputName = errors.New("invalid output name")
)

// Kind selects a converter.
type Kind string

const (
	KindHTMLSanitize     Kind = "html-sanitize"
	KindQAText           Kind = "qa-text"
	KindQAMarkdown       Kind = "qa-markdown"
	KindQAMarkdownAssets Kind = "qa-markdown-assets"
	KindArticleMarkdown  Kind = "article-markdown"
	KindTextToHTML       Kind = "text-to-html"
)

// KindInfo describes a converter for UIs and CLIs.
type KindInfo struct {
	Kind        Kind
	Description string
	InputExts   []string
	OutputExt   string
	OutputMIME  string
}

var kinds = []KindInfo{
	{
		Kind:        KindHTMLSanitize,
		Description: "MHTML → 독립 실행형 HTML (리소스 인라인, 앱 셸 제거)",
		InputExts:   []string{".mhtml", ".mht"},
		OutputExt:   ".html",
		OutputMIME:  "text/html; charset=utf-8",
	},
	{
		Kind:        KindQAText,
		Description: "MHTML → 질문/답변 텍스트 ([Turn N] 형식)",
		InputExts:   []string{".mhtml", ".mht"},
		OutputExt:   ".qa.txt",
		OutputMIME:  "text/plain; charset=utf-8",
	},
	{
		Kind:        KindQAMarkdown,
		Description: "MHTML → 질문/답변 Markdown",
		InputExts:   []string{".mhtml", ".mht"},
		OutputExt:   ".md",
		OutputMIME:  "text/markdown; charset=utf-8",
	},
	{
		Kind:        KindQAMarkdownAssets,
		Description: "MHTML → 질문/답변 Markdown + 이미지/SVG 추출",
		InputExts:   []string{".mhtml", ".mht"},
		OutputExt:   ".md",
		OutputMIME:  "text/markdown; charset=utf-8",
	},
	{
		Kind:        KindArticleMarkdown,
		Description: "MHTML → 본문 Markdown (제목 + 문단 추출)",
		InputExts:   []string{".mhtml", ".mht"},
		OutputExt:   ".md",
		OutputMIME:  "text/markdown; charset=utf-8",
	},
	{
		Kind:        KindTextToHTML,
		Description: "질문/답변 텍스트 → 대화 버블 HTML",
		InputExts:   []string{".txt"},
		OutputExt:   ".html",
		OutputMIME:  "text/html; charset=utf-8",
	},
}

// Kinds lists every converter in presentation order.
func Kinds() []KindInfo {
	out := make([]KindInfo, len(kinds))
	copy(out, kinds)
	return out
}

// Info returns the description record for a kind.
func Info(k Kind) (KindInfo, error) {
	for _, info := range kinds {
		if info.Kind == k {
			return info, nil
		}
	}
	return KindInfo{}, fmt.Errorf("%w: %q", ErrUnknownConverter, k)
}

// ParseKind validates a kind name from a UI or CLI.
func ParseKind(s string) (Kind, error) {
	info, err := Info(Kind(strings.TrimSpace(s)))
	if err != nil {
		return "", err
	}
	return info.Kind, nil
}

// ValidateOutputName rejects caller-supplied output names that could
// escape the output directory.
func ValidateOutputName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidOutputName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidOutputName, name)
	}
	return nil
}

// OutputName suggests an output filename for an input name: the base name
// with the kind's extension appended.
func OutputName(inputName string, k Kind) string {
	info, err := Info(k)
	if err != nil {
		return inputName + ".out"
	}
	base := inputName
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + info.OutputExt
}
