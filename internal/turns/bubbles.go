package turns

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// viewerTemplate is the standalone conversation page the text-to-html
// converter splices bubbles into. Custom templates work too as long as
// they carry the container element.
//
//go:embed viewer.html
var viewerTemplate string

const containerOpen = `<main class="container">`

var bubblePolicy = bluemonday.StrictPolicy()

// RenderBubbles renders turns as question/answer bubbles inside the
// embedded viewer template.
func RenderBubbles(ts []Turn) (string, error) {
	return RenderBubblesWith(viewerTemplate, ts)
}

// RenderBubblesWith splices rendered bubbles into template, which must
// contain a <main class="container"> element. Question and answer text is
// stripped of any markup before insertion; transcripts are plain text and
// anything tag-shaped in them is noise, not formatting.
func RenderBubblesWith(template string, ts []Turn) (string, error) {
	start := strings.Index(template, containerOpen)
	if start == -1 {
		return "", fmt.Errorf("viewer template missing %s element", containerOpen)
	}
	end := strings.Index(template[start:], "</main>")
	if end == -1 {
		return "", fmt.Errorf("viewer template missing </main> close tag")
	}
	end += start

	var blocks []string
	for _, t := range ts {
		answer := t.Answer
		if answer == "" {
			answer = NoAnswer
		}
		blocks = append(blocks, bubble("user", "U", "질문", t.Question))
		blocks = append(blocks, bubble("model", "G", "답변", answer))
	}

	var b strings.Builder
	b.WriteString(template[:start+len(containerOpen)])
	b.WriteString("\n\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(template[end:])
	return b.String(), nil
}

func bubble(role, avatar, label, text string) string {
	const indent = "            "
	var b strings.Builder
	b.WriteString(indent + `<div class="message ` + role + "\">\n")
	b.WriteString(indent + `    <div class="avatar">` + avatar + "</div>\n")
	b.WriteString(indent + "    <div class=\"bubble\">\n")
	b.WriteString(indent + `        <div class="label">` + label + "</div>\n")
	b.WriteString(indent + `        <div class="text">` + bubblePolicy.Sanitize(text) + "</div>\n")
	b.WriteString(indent + "    </div>\n")
	b.WriteString(indent + "</div>")
	return b.String()
}
