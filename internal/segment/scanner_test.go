package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_MarkerTags(t *testing.T) {
	html := `<body><user-query>Hi</user-query><message-content>Hello!</message-content></body>`

	frags, strategy := Scan(html)
	assert.Equal(t, StrategyGenericMarker, strategy)
	require.Len(t, frags, 2)

	assert.Equal(t, RoleUser, frags[0].Role)
	assert.Equal(t, "Hi", frags[0].HTML)
	assert.Equal(t, RoleModel, frags[1].Role)
	assert.Equal(t, "Hello!", frags[1].HTML)
}

func TestScan_MarkerTags_OrderedByPosition(t *testing.T) {
	html := `<user-query>Q1</user-query>` +
		`<message-content>A1</message-content>` +
		`<user-query>Q2</user-query>` +
		`<message-content>A2</message-content>`

	frags, strategy := Scan(html)
	assert.Equal(t, StrategyGenericMarker, strategy)
	require.Len(t, frags, 4)

	var got []string
	for _, f := range frags {
		got = append(got, f.HTML)
	}
	assert.Equal(t, []string{"Q1", "A1", "Q2", "A2"}, got)
}

func TestScan_MarkerTags_MultilineContent(t *testing.T) {
	html := "<user-query>\nline one\nline two\n</user-query>"

	frags, _ := Scan(html)
	require.Len(t, frags, 1)
	assert.Contains(t, frags[0].HTML, "line one\nline two")
}

func TestScan_Balanced_NestedDivs(t *testing.T) {
	html := `<div dir="ltr" class="css-a r-imh66m r-1kt6imw"><div>inner <div>deep</div> question</div></div>` +
		`<div dir="ltr" class="css-a r-imh66m"><div>the answer</div></div>`

	frags, strategy := Scan(html)
	assert.Equal(t, StrategyBalancedScan, strategy)
	require.Len(t, frags, 2)

	assert.Equal(t, RoleUser, frags[0].Role)
	assert.Equal(t, "<div>inner <div>deep</div> question</div>", frags[0].HTML)
	assert.Equal(t, RoleModel, frags[1].Role)
	assert.Equal(t, "<div>the answer</div>", frags[1].HTML)
}

func TestScan_Balanced_SkipsNonBlockContainers(t *testing.T) {
	html := `<div dir="ltr" class="css-other">noise</div>` +
		`<div dir="ltr" class="r-imh66m">kept</div>`

	frags, strategy := Scan(html)
	assert.Equal(t, StrategyBalancedScan, strategy)
	require.Len(t, frags, 1)
	assert.Equal(t, "kept", frags[0].HTML)
}

func TestScan_Balanced_UnclosedRunsToEnd(t *testing.T) {
	html := `<div dir="ltr" class="r-imh66m"><div>never closed`

	frags, strategy := Scan(html)
	assert.Equal(t, StrategyBalancedScan, strategy)
	require.Len(t, frags, 1)
	assert.Equal(t, "<div>never closed", frags[0].HTML)
}

func TestScan_RoleAttributes(t *testing.T) {
	html := `<div data-message-author-role="user"><p>question</p></div>` +
		`<div data-message-author-role="assistant"><p>answer</p></div>`

	frags, strategy := Scan(html)
	assert.Equal(t, StrategyAttributeMarker, strategy)
	require.Len(t, frags, 2)

	assert.Equal(t, RoleUser, frags[0].Role)
	assert.Contains(t, frags[0].HTML, "question")
	assert.Equal(t, RoleModel, frags[1].Role)
	assert.Contains(t, frags[1].HTML, "answer")
}

func TestScan_RoleAttributes_LastFragmentRunsToEnd(t *testing.T) {
	html := `<div data-message-author-role="assistant">tail` + strings.Repeat("x", 10)

	frags, _ := Scan(html)
	require.Len(t, frags, 1)
	assert.True(t, strings.HasSuffix(frags[0].HTML, strings.Repeat("x", 10)))
}

func TestScan_NoMarkers(t *testing.T) {
	frags, strategy := Scan("<html><body><p>just an article</p></body></html>")
	assert.Empty(t, frags)
	assert.Equal(t, StrategyNone, strategy)
}

func TestScan_MarkerTagsWinOverAttributes(t *testing.T) {
	html := `<user-query>Q</user-query>` +
		`<div data-message-author-role="assistant">A</div>`

	_, strategy := Scan(html)
	assert.Equal(t, StrategyGenericMarker, strategy)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "generic-marker", StrategyGenericMarker.String())
	assert.Equal(t, "balanced-scan", StrategyBalancedScan.String())
	assert.Equal(t, "attribute-marker", StrategyAttributeMarker.String())
	assert.Equal(t, "none", StrategyNone.String())
}
