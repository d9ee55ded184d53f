// Package sanitize turns a parsed MHTML chat snapshot into a clean,
// standalone HTML document: inline resources reconnected, app-shell chrome
// hidden, scripts removed, math rendering restored.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/felo/chatsnap/internal/mhtml"
)

// conversationContainer is the export's top-level content element. When
// present, the whole body is replaced by a fresh wrapper around it so that
// hidden app-shell layouts cannot interfere with the static page.
const conversationContainer = "chat-window-content"

var (
	// Bold markers that leaked into the export as literal text instead of
	// rendered <strong> elements.
	boldTextRe = regexp.MustCompile(`\*\*([^*\n][^*\n]*?)\*\*`)
	boldSpanRe = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
)

var boldSkipParents = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
}

// Render produces the restyled standalone HTML for the snapshot, together
// with non-fatal warnings (unresolved resources).
func Render(doc *mhtml.Document) ([]byte, []string, error) {
	htmlText, err := doc.MainHTML()
	if err != nil {
		return nil, nil, err
	}

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, nil, err
	}

	warnings := mhtml.RewriteCIDReferences(gq, doc.BuildResourceMap())

	stripUnrenderedBold(gq)
	gq.Find("script").Remove()
	rerootConversation(gq)
	injectHead(gq)

	out, err := gq.Html()
	if err != nil {
		return nil, nil, err
	}
	// Whatever bold markers survived the structured passes (split across
	// elements in ways neither pass can see) go here.
	out = strings.ReplaceAll(out, "**", "")
	return []byte(out), warnings, nil
}

// stripUnrenderedBold removes literal **text** markers in two passes: over
// individual text nodes, then over block elements whose inner markup splits
// a marker pair across children.
func stripUnrenderedBold(gq *goquery.Document) {
	for _, root := range gq.Selection.Nodes {
		stripBoldTextNodes(root)
	}

	gq.Find("p, li, h1, h2, h3, h4, h5, h6, td, th").Each(func(_ int, sel *goquery.Selection) {
		inner, err := sel.Html()
		if err != nil || !strings.Contains(inner, "**") {
			return
		}
		cleaned := boldSpanRe.ReplaceAllString(inner, "$1")
		if cleaned != inner {
			sel.SetHtml(cleaned)
		}
	})
}

func stripBoldTextNodes(n *html.Node) {
	if n.Type == html.TextNode && strings.Contains(n.Data, "**") {
		if n.Parent == nil || !boldSkipParents[n.Parent.Data] {
			n.Data = boldTextRe.ReplaceAllString(n.Data, "$1")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripBoldTextNodes(c)
	}
}

func rerootConversation(gq *goquery.Document) {
	sel := gq.Find(conversationContainer).First()
	if sel.Length() == 0 {
		return
	}
	outer, err := goquery.OuterHtml(sel)
	if err != nil {
		return
	}
	body := gq.Find("body").First()
	if body.Length() == 0 {
		return
	}
	body.SetHtml(`<main id="content-root">` + outer + `</main>`)
}

func injectHead(gq *goquery.Document) {
	head := gq.Find("head").First()
	if head.Length() == 0 {
		// The parser materializes head for any full document; a missing
		// head means a bare fragment, which gets one via the html node.
		gq.Find("html").First().PrependHtml("<head></head>")
		head = gq.Find("head").First()
	}

	head.AppendHtml(`<style id="clean-content-style">` + uiHideCSS + `</style>`)
	head.AppendHtml("<script>" + mathJaxConfig + "</script>")
	head.AppendHtml(`<script src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js" id="mathjax-script" defer></script>`)

	if gq.Find("meta[charset]").Length() == 0 {
		head.PrependHtml(`<meta charset="UTF-8">`)
	}
}
