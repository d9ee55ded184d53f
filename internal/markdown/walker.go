// Package markdown converts conversation HTML fragments into Markdown or
// flattened plain text, tag by tag, suppressing site chrome and export
// noise along the way.
package markdown

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/felo/chatsnap/internal/mhtml"
)

// AssetSink stores extracted images and inline SVGs and returns the path to
// reference them by. Only the asset-extracting Markdown variant provides
// one; without a sink, images and SVGs render to nothing.
type AssetSink interface {
	SaveImage(contentType string, data []byte) (string, error)
	SaveSVG(markup string) (string, error)
}

// classSuppressions hides site widgets that carry no conversation content:
// collapsed "thinking" panels, citation chips, tooltips, edit controls.
var classSuppressions = []string{
	"thinking-chain-container",
	"thinking-block",
	"citations",
	"tooltip",
	"edit-user-message-button",
}

var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"button":   true,
}

var collapseWSRe = regexp.MustCompile(`\s+`)

// Walker renders HTML fragments to Markdown. Resources and Assets are
// optional; they only matter when fragments embed cid: images or inline
// SVG diagrams.
type Walker struct {
	Resources mhtml.ResourceMap
	Assets    AssetSink

	warnings []string
}

// Warnings reports non-fatal anomalies (failed asset saves) accumulated
// over all Render calls.
func (w *Walker) Warnings() []string {
	return w.warnings
}

// Render converts one HTML fragment into Markdown.
func (w *Walker) Render(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	body := findElement(root, "body")
	if body == nil {
		return ""
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(w.renderNode(c, 0))
	}
	return b.String()
}

func (w *Walker) renderNode(n *html.Node, depth int) string {
	switch n.Type {
	case html.TextNode:
		return strings.ReplaceAll(n.Data, "\u00a0", " ")
	case html.ElementNode:
		// handled below
	default:
		return ""
	}

	class := attrValue(n, "class")
	for _, marker := range classSuppressions {
		if strings.Contains(class, marker) {
			return ""
		}
	}
	if hasClassToken(n, "overflow-hidden") && hasClassToken(n, "h-0") {
		// Collapsed reasoning panel.
		return ""
	}
	if ignoredTags[n.Data] {
		return ""
	}

	switch n.Data {
	case "svg":
		return w.renderSVG(n)
	case "img":
		return w.renderImage(n)
	case "br":
		return "\n"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		text := flattenText(n)
		if text == "" {
			return ""
		}
		return "\n" + strings.Repeat("#", level) + " " + text + "\n\n"
	case "table":
		if md := renderTable(n); md != "" {
			return md + "\n\n"
		}
		return ""
	case "ul":
		return w.renderList(n, depth, false)
	case "ol":
		return w.renderList(n, depth, true)
	case "p", "div", "section", "article", "blockquote":
		body := strings.TrimSpace(w.renderChildren(n, depth))
		if body == "" {
			return ""
		}
		return body + "\n\n"
	default:
		return w.renderChildren(n, depth)
	}
}

func (w *Walker) renderChildren(n *html.Node, depth int) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(w.renderNode(c, depth))
	}
	return b.String()
}

func (w *Walker) renderList(n *html.Node, depth int, ordered bool) string {
	var items []string
	index := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		content := strings.TrimSpace(w.renderChildren(c, depth+1))
		if content == "" {
			// No empty bullets.
			continue
		}
		indent := strings.Repeat("  ", depth)
		if ordered {
			index++
			items = append(items, fmt.Sprintf("%s%d. %s", indent, index, content))
		} else {
			items = append(items, indent+"- "+content)
		}
	}
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n\n"
}

func (w *Walker) renderSVG(n *html.Node) string {
	if w.Assets == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	path, err := w.Assets.SaveSVG(buf.String())
	if err != nil {
		w.warnings = append(w.warnings, "failed to save inline svg: "+err.Error())
		return ""
	}
	return "![svg](" + path + ")\n\n"
}

func (w *Walker) renderImage(n *html.Node) string {
	src := attrValue(n, "src")
	if src == "" {
		return ""
	}
	// Provider favicons injected next to citations.
	if strings.Contains(src, "icon.z.ai") {
		return ""
	}

	switch {
	case strings.HasPrefix(src, "cid:"):
		if w.Assets == nil || w.Resources == nil {
			return ""
		}
		part := w.Resources.Lookup(src)
		if part == nil {
			w.warnings = append(w.warnings, "unresolved image "+src)
			return ""
		}
		path, err := w.Assets.SaveImage(part.ContentType, part.Bytes())
		if err != nil {
			w.warnings = append(w.warnings, "failed to save image "+src+": "+err.Error())
			return ""
		}
		return "![image](" + path + ")\n\n"

	case strings.HasPrefix(src, "data:image/svg"):
		if w.Assets == nil {
			return ""
		}
		markup, ok := dataURIPayload(src)
		if !ok {
			return ""
		}
		path, err := w.Assets.SaveSVG(markup)
		if err != nil {
			w.warnings = append(w.warnings, "failed to save svg image: "+err.Error())
			return ""
		}
		return "![svg](" + path + ")\n\n"
	}

	// Remaining external images in chat exports are citation favicons.
	return ""
}

// renderTable renders a GitHub-flavored Markdown table. Rows are padded to
// the widest row; a separator of --- cells follows the first row.
func renderTable(n *html.Node) string {
	var rows [][]string
	for _, tr := range findAllElements(n, "tr") {
		var row []string
		for _, cell := range findAllElements(tr, "th", "td") {
			text := flattenText(cell)
			row = append(row, strings.ReplaceAll(text, "|", `\|`))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	var lines []string
	lines = append(lines, "| "+strings.Join(rows[0], " | ")+" |")
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
	for _, row := range rows[1:] {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// flattenText collects the node's text content with whitespace collapsed
// and non-breaking spaces normalized.
func flattenText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	text := strings.ReplaceAll(b.String(), "\u00a0", " ")
	return strings.TrimSpace(collapseWSRe.ReplaceAllString(text, " "))
}

// dataURIPayload extracts the decoded payload of a data: URI.
func dataURIPayload(uri string) (string, bool) {
	_, rest, found := strings.Cut(uri, ",")
	if !found {
		return "", false
	}
	header, _, _ := strings.Cut(uri, ",")
	if strings.Contains(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}
	decoded, err := url.PathUnescape(rest)
	if err != nil {
		return rest, true
	}
	return decoded, true
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClassToken(n *html.Node, token string) bool {
	for _, field := range strings.Fields(attrValue(n, "class")) {
		if field == token {
			return true
		}
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAllElements(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, tag := range tags {
				if node.Data == tag {
					out = append(out, node)
					break
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}
