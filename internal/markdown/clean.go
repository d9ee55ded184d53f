package markdown

import (
	"regexp"
	"strings"
)

// boilerplateLines are whole lines dropped case-insensitively: export-tool
// section labels that survive the tree walk as bare text.
var boilerplateLines = map[string]bool{
	"sources":         true,
	"thought process": true,
}

var (
	trailingWSRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t]{2,}`)
	digitLineRe  = regexp.MustCompile(`^\d{1,3}$`)
	domainLineRe = regexp.MustCompile(`^(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}$`)
	// bareDomainRe matches domain-name-shaped tokens anywhere in a line.
	// Citation widgets leak their source hostnames into the text.
	bareDomainRe = regexp.MustCompile(`(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}`)
)

// CleanMarkdown is the uniform post-pass over walker output: it normalizes
// line breaks, strips trailing whitespace, drops boilerplate lines, stray
// footnote-number lines (1-3 digits) and domain-shaped lines, removes
// domain-shaped tokens mid-line unless they sit in parentheses, and
// collapses space runs and blank-line runs.
func CleanMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			lines = append(lines, "")
			continue
		}
		if boilerplateLines[strings.ToLower(s)] {
			continue
		}
		if digitLineRe.MatchString(s) {
			continue
		}
		if domainLineRe.MatchString(s) {
			continue
		}
		lines = append(lines, s)
	}

	out := strings.Join(lines, "\n")
	out = stripDomainTokens(out)
	out = spaceRunRe.ReplaceAllString(out, " ")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	return out + "\n"
}

// stripDomainTokens removes domain-shaped tokens unless they are already
// parenthesized (preceded by "(" or followed by ")"). This intentionally
// also eats legitimate word.word abbreviations; see DESIGN.md.
func stripDomainTokens(s string) string {
	matches := bareDomainRe.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		keep := (start > 0 && s[start-1] == '(') || (end < len(s) && s[end] == ')')
		b.WriteString(s[prev:start])
		if keep {
			b.WriteString(s[start:end])
		}
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}
