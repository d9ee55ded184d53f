package turns

import (
	"fmt"
	"strings"
)

// Transcript section markers. FormatText and ParseText must stay exact
// inverses of each other; these constants are the contract.
const (
	turnHeaderPrefix = "[Turn "
	turnHeaderSuffix = "]"
	questionMarker   = "질문:"
	answerMarker     = "답변:"
)

// FormatText renders turns as the plain-text transcript:
//
//	[Turn 1]
//	질문:
//	...
//
//	답변:
//	...
func FormatText(ts []Turn) string {
	var b strings.Builder
	for i, t := range ts {
		answer := t.Answer
		if answer == "" {
			answer = NoAnswer
		}
		fmt.Fprintf(&b, "%s%d%s\n", turnHeaderPrefix, i+1, turnHeaderSuffix)
		b.WriteString(questionMarker + "\n")
		b.WriteString(t.Question)
		b.WriteString("\n\n")
		b.WriteString(answerMarker + "\n")
		b.WriteString(answer)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatMarkdown renders turns as a Markdown transcript with a title
// heading and per-turn question/answer sections.
func FormatMarkdown(ts []Turn, title string) string {
	lines := []string{"# " + title, ""}
	for i, t := range ts {
		answer := t.Answer
		if answer == "" {
			answer = NoAnswer
		}
		lines = append(lines,
			fmt.Sprintf("## Turn %d", i+1), "",
			"### 질문", "",
			t.Question, "",
			"### 답변", "",
			answer, "",
		)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// ParseText re-tokenizes a transcript produced by FormatText. Lines
// accumulate into the active section until the next turn delimiter or end
// of input; the round trip ParseText(FormatText(ts)) preserves ts for
// transcripts free of delimiter-shaped lines.
func ParseText(text string) []Turn {
	var (
		ts            []Turn
		questionLines []string
		answerLines   []string
		section       string
	)

	flush := func() {
		if len(questionLines) == 0 && len(answerLines) == 0 {
			return
		}
		ts = append(ts, Turn{
			Question: strings.Trim(strings.Join(questionLines, "\n"), "\n"),
			Answer:   strings.Trim(strings.Join(answerLines, "\n"), "\n"),
		})
		questionLines = nil
		answerLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, turnHeaderPrefix) && strings.HasSuffix(line, turnHeaderSuffix) {
			flush()
			section = ""
			continue
		}
		switch strings.TrimSpace(line) {
		case questionMarker:
			section = "question"
			continue
		case answerMarker:
			section = "answer"
			continue
		}
		switch section {
		case "question":
			questionLines = append(questionLines, line)
		case "answer":
			answerLines = append(answerLines, line)
		}
	}
	flush()
	return ts
}
