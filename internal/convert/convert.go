package convert

import (
	"fmt"
	"strings"

	"github.com/felo/chatsnap/internal/markdown"
	"github.com/felo/chatsnap/internal/mhtml"
	"github.com/felo/chatsnap/internal/sanitize"
	"github.com/felo/chatsnap/internal/segment"
	"github.com/felo/chatsnap/internal/turns"
)

// Request is one conversion call. AssetsDir is only consulted by the
// asset-extracting Markdown kind; when empty, assets are skipped and a
// diagnostic notes it.
type Request struct {
	Input     []byte
	Kind      Kind
	InputName string
	AssetsDir string
}

// Artifact is the result of a conversion: the output bytes, their MIME
// type, and a log of non-fatal anomalies (one per line, possibly empty).
type Artifact struct {
	Bytes       []byte
	MIME        string
	Diagnostics string
}

// TurnCount reports how many [Turn N] blocks a transcript artifact holds;
// zero for non-transcript outputs. The web runner shows it in history.
func (a *Artifact) TurnCount() int {
	if !strings.HasPrefix(a.MIME, "text/plain") && !strings.HasPrefix(a.MIME, "text/markdown") {
		return 0
	}
	return strings.Count(string(a.Bytes), "[Turn ") + strings.Count(string(a.Bytes), "## Turn ")
}

// Run executes one conversion. Each call is self-contained: no state is
// shared between conversions, so independent inputs convert in parallel
// safely. Errors are terminal; Run never retries.
func Run(req Request) (*Artifact, error) {
	info, err := Info(req.Kind)
	if err != nil {
		return nil, err
	}

	var (
		out      []byte
		warnings []string
	)

	switch req.Kind {
	case KindHTMLSanitize:
		out, warnings, err = runSanitize(req)
	case KindQAText:
		out, warnings, err = runQAText(req)
	case KindQAMarkdown, KindQAMarkdownAssets:
		out, warnings, err = runQAMarkdown(req)
	case KindArticleMarkdown:
		out, warnings, err = runArticle(req)
	case KindTextToHTML:
		out, warnings, err = runTextToHTML(req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConverter, req.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Bytes:       out,
		MIME:        info.OutputMIME,
		Diagnostics: strings.Join(warnings, "\n"),
	}, nil
}

func runSanitize(req Request) ([]byte, []string, error) {
	doc, err := mhtml.Parse(req.Input)
	if err != nil {
		return nil, nil, err
	}
	return sanitize.Render(doc)
}

func runQAText(req Request) ([]byte, []string, error) {
	doc, err := mhtml.Parse(req.Input)
	if err != nil {
		return nil, nil, err
	}
	htmlText, err := doc.MainHTML()
	if err != nil {
		return nil, nil, err
	}

	fragments, strategy := segment.Scan(htmlText)
	var warnings []string
	if strategy == segment.StrategyNone {
		warnings = append(warnings, "no conversation markers recognized in "+req.InputName)
	}

	var asm turns.Assembler
	for _, frag := range fragments {
		text := markdown.CleanDialogText(markdown.RenderText(frag.HTML), frag.Role == segment.RoleModel)
		if frag.Role == segment.RoleUser {
			asm.AddUser(text)
		} else {
			asm.AddModel(text)
		}
	}

	return []byte(turns.FormatText(asm.Turns())), warnings, nil
}

func runQAMarkdown(req Request) ([]byte, []string, error) {
	doc, err := mhtml.Parse(req.Input)
	if err != nil {
		return nil, nil, err
	}
	htmlText, err := doc.MainHTML()
	if err != nil {
		return nil, nil, err
	}

	fragments, strategy := segment.Scan(htmlText)
	var warnings []string
	if strategy == segment.StrategyNone {
		warnings = append(warnings, "no conversation markers recognized in "+req.InputName)
	}

	walker := &markdown.Walker{Resources: doc.BuildResourceMap()}
	if req.Kind == KindQAMarkdownAssets {
		if req.AssetsDir == "" {
			warnings = append(warnings, "no assets directory configured, images skipped")
		} else {
			sink, err := NewDirSink(req.AssetsDir)
			if err != nil {
				return nil, nil, err
			}
			walker.Assets = sink
		}
	}

	var asm turns.Assembler
	for _, frag := range fragments {
		text := strings.TrimSpace(markdown.CleanMarkdown(walker.Render(frag.HTML)))
		if frag.Role == segment.RoleUser {
			asm.AddUser(text)
		} else {
			asm.AddModel(text)
		}
	}
	warnings = append(warnings, walker.Warnings()...)

	title := strings.TrimSpace(req.InputName)
	if title == "" {
		title = "대화"
	}
	title += " 질문·답변 정리"

	return []byte(turns.FormatMarkdown(asm.Turns(), title)), warnings, nil
}

func runTextToHTML(req Request) ([]byte, []string, error) {
	text := strings.ToValidUTF8(string(req.Input), "�")
	ts := turns.ParseText(text)

	var warnings []string
	if len(ts) == 0 {
		warnings = append(warnings, "no [Turn N] blocks found in "+req.InputName)
	}

	out, err := turns.RenderBubbles(ts)
	if err != nil {
		return nil, nil, err
	}
	return []byte(out), warnings, nil
}
