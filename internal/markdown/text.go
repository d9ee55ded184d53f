package markdown

import (
	stdhtml "html"
	"regexp"
	"strings"
)

// The plain-text path flattens HTML with regex passes instead of a tree
// walk; the question/answer text transcript does not need per-tag
// formatting, only sane line breaks.
var (
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(p|div|li|ul|ol|blockquote|h[1-6]|tr|table|section)>`)
	blockOpenRe  = regexp.MustCompile(`(?i)<(p|div|li|ul|ol|blockquote|h[1-6]|tr|table|section)[^>]*>`)
	tdOpenRe     = regexp.MustCompile(`(?i)<td[^>]*>`)
	tdCloseRe    = regexp.MustCompile(`(?i)</td>`)
	anyTagRe     = regexp.MustCompile(`<[^>]+>`)
	crRe         = regexp.MustCompile(`\r\n?`)
	leadingWSRe  = regexp.MustCompile(`\n[ \t]+`)
	digitOnlyRe  = regexp.MustCompile(`^\d+$`)
	leadDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\n+`)
)

// chatBoilerplate lines are the speaker labels some exports render as
// standalone text above every message.
var chatBoilerplate = map[string]bool{
	"ChatGPT said:": true,
	"You said:":     true,
	"사용자 said:":     true,
}

// RenderText flattens one HTML fragment to plain text: block boundaries
// become line breaks, table cells become tabs, all remaining markup is
// dropped and entities are unescaped.
func RenderText(fragment string) string {
	text := brRe.ReplaceAllString(fragment, "\n")
	text = blockCloseRe.ReplaceAllString(text, "\n")
	text = blockOpenRe.ReplaceAllString(text, "\n")
	text = tdOpenRe.ReplaceAllString(text, "\t")
	text = tdCloseRe.ReplaceAllString(text, "\t")
	text = anyTagRe.ReplaceAllString(text, "")
	text = stdhtml.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = crRe.ReplaceAllString(text, "\n")
	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = leadingWSRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// CleanDialogText removes per-message export noise from flattened text:
// speaker labels, bare footnote numbers, and (for model messages) the date
// line some exports prepend to the first answer of a day.
func CleanDialogText(text string, model bool) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			lines = append(lines, "")
			continue
		}
		if chatBoilerplate[stripped] {
			continue
		}
		if digitOnlyRe.MatchString(stripped) {
			continue
		}
		lines = append(lines, line)
	}

	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if model {
		out = leadDateRe.ReplaceAllString(out, "")
	}
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
