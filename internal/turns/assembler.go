// Package turns folds an ordered stream of role-tagged message texts into
// question/answer turns and formats transcripts (and parses them back).
package turns

import "strings"

// Placeholders for one-sided turns. A model message with no preceding
// question gets NoQuestion; a trailing question with no answer renders as
// NoAnswer in formatted output.
const (
	NoQuestion = "(질문 없음)"
	NoAnswer   = "(답변 없음)"
)

// Turn is one question with its accumulated answer text. Answer may be
// empty; formatters substitute NoAnswer.
type Turn struct {
	Question string
	Answer   string
}

// Assembler pairs questions with answers as fragments arrive in document
// order. Texts that are empty after cleanup must be skipped by the caller
// or passed as ""; they do not affect state.
type Assembler struct {
	turns       []Turn
	question    string
	hasQuestion bool
	answers     []string
}

// AddUser records a user message. A pending question is flushed first as a
// turn with whatever answers accumulated (possibly none).
func (a *Assembler) AddUser(text string) {
	if text == "" {
		return
	}
	if a.hasQuestion {
		a.emit()
	}
	a.question = text
	a.hasQuestion = true
	a.answers = nil
}

// AddModel records a model message. Without a pending question the
// NoQuestion placeholder becomes the question.
func (a *Assembler) AddModel(text string) {
	if text == "" {
		return
	}
	if !a.hasQuestion {
		a.question = NoQuestion
		a.hasQuestion = true
	}
	a.answers = append(a.answers, text)
}

// Turns flushes any pending question and returns the assembled turns.
func (a *Assembler) Turns() []Turn {
	if a.hasQuestion {
		a.emit()
	}
	return a.turns
}

func (a *Assembler) emit() {
	var kept []string
	for _, ans := range a.answers {
		if strings.TrimSpace(ans) != "" {
			kept = append(kept, ans)
		}
	}
	a.turns = append(a.turns, Turn{
		Question: a.question,
		Answer:   strings.TrimSpace(strings.Join(kept, "\n\n")),
	})
	a.hasQuestion = false
	a.question = ""
	a.answers = nil
}
