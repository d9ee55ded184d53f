package turns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatText(t *testing.T) {
	ts := []Turn{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: ""},
	}

	got := FormatText(ts)
	want := "[Turn 1]\n질문:\nQ1\n\n답변:\nA1\n\n" +
		"[Turn 2]\n질문:\nQ2\n\n답변:\n" + NoAnswer + "\n\n"
	assert.Equal(t, want, got)
}

func TestFormatMarkdown(t *testing.T) {
	ts := []Turn{{Question: "the question", Answer: "the answer"}}

	got := FormatMarkdown(ts, "제목")
	assert.Contains(t, got, "# 제목\n")
	assert.Contains(t, got, "## Turn 1\n")
	assert.Contains(t, got, "### 질문\n\nthe question\n")
	assert.Contains(t, got, "### 답변\n\nthe answer\n")
}

func TestFormatMarkdown_EmptyAnswerPlaceholder(t *testing.T) {
	got := FormatMarkdown([]Turn{{Question: "Q"}}, "t")
	assert.Contains(t, got, NoAnswer)
}

func TestParseText_RoundTrip(t *testing.T) {
	ts := []Turn{
		{Question: "first question", Answer: "first answer"},
		{Question: "multi\nline\nquestion", Answer: "multi\n\nparagraph answer"},
		{Question: NoQuestion, Answer: "unprompted"},
	}

	parsed := ParseText(FormatText(ts))
	require.Len(t, parsed, len(ts))
	for i := range ts {
		assert.Equal(t, ts[i].Question, parsed[i].Question, "turn %d question", i+1)
		assert.Equal(t, ts[i].Answer, parsed[i].Answer, "turn %d answer", i+1)
	}
}

func TestParseText_EmptyAnswerRoundTrip(t *testing.T) {
	ts := []Turn{{Question: "Q", Answer: ""}}
	parsed := ParseText(FormatText(ts))
	require.Len(t, parsed, 1)
	assert.Equal(t, "Q", parsed[0].Question)
	// The placeholder is literal text once formatted.
	assert.Equal(t, NoAnswer, parsed[0].Answer)
}

func TestParseText_IgnoresPreamble(t *testing.T) {
	text := "saved from browser\n\n[Turn 1]\n질문:\nQ\n\n답변:\nA\n"
	parsed := ParseText(text)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Q", parsed[0].Question)
	assert.Equal(t, "A", parsed[0].Answer)
}

func TestParseText_NoTurns(t *testing.T) {
	assert.Empty(t, ParseText("no markers here at all"))
}
