package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdown_NormalizesLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\n", CleanMarkdown("a\r\nb\r"))
}

func TestCleanMarkdown_TrailingWhitespace(t *testing.T) {
	assert.Equal(t, "line\nnext\n", CleanMarkdown("line   \nnext\t\n"))
}

func TestCleanMarkdown_CollapsesBlankRuns(t *testing.T) {
	assert.Equal(t, "a\n\nb\n", CleanMarkdown("a\n\n\n\n\nb"))
}

func TestCleanMarkdown_CollapsesSpaceRuns(t *testing.T) {
	assert.Equal(t, "two words\n", CleanMarkdown("two     words"))
}

func TestCleanMarkdown_DropsBoilerplateLines(t *testing.T) {
	in := "answer text\nSources\nThought Process\nmore text"
	assert.Equal(t, "answer text\nmore text\n", CleanMarkdown(in))
}

func TestCleanMarkdown_DropsFootnoteNumberLines(t *testing.T) {
	in := "claim\n12\n345\nnext"
	assert.Equal(t, "claim\nnext\n", CleanMarkdown(in))
}

func TestCleanMarkdown_KeepsLongNumberLines(t *testing.T) {
	// Four digits is a year, not a footnote marker.
	assert.Equal(t, "2024\n", CleanMarkdown("2024"))
}

func TestCleanMarkdown_DropsDomainLines(t *testing.T) {
	in := "text above\nen.wikipedia.org\ntext below"
	assert.Equal(t, "text above\ntext below\n", CleanMarkdown(in))
}

func TestCleanMarkdown_StripsMidlineDomains(t *testing.T) {
	assert.Equal(t, "according to the article\n", CleanMarkdown("according to example.com the article"))
}

func TestCleanMarkdown_KeepsParenthesizedDomains(t *testing.T) {
	assert.Equal(t, "see (example.com) for details\n", CleanMarkdown("see (example.com) for details"))
}

func TestCleanMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", CleanMarkdown("   \n  \n"))
}

func TestCleanMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\nbody paragraph\n\n- item one\n- item two\n",
		"plain sentence\n",
		"| a | b |\n| --- | --- |\n| 1 | 2 |\n",
	}
	for _, in := range inputs {
		once := CleanMarkdown(in)
		assert.Equal(t, once, CleanMarkdown(once))
	}
}
