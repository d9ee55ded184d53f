package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felo/chatsnap/internal/mhtml"
)

// chatSnapshot is a small but complete MHTML export with one question and
// one answer in the marker-tag layout.
func chatSnapshot() []byte {
	return []byte(strings.Join([]string{
		"From: <Saved by Blink>",
		`Content-Type: multipart/related; type="text/html"; boundary="XYZ"`,
		"",
		"--XYZ",
		"Content-Type: text/html; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"<html><body><user-query>Hi</user-query><message-content>Hello!</message-content></body></html>",
		"--XYZ--",
	}, "\r\n"))
}

func TestRun_QAText(t *testing.T) {
	artifact, err := Run(Request{Input: chatSnapshot(), Kind: KindQAText, InputName: "chat.mhtml"})
	require.NoError(t, err)

	assert.Equal(t, "text/plain; charset=utf-8", artifact.MIME)
	got := string(artifact.Bytes)
	assert.Contains(t, got, "[Turn 1]")
	assert.Contains(t, got, "질문:\nHi")
	assert.Contains(t, got, "답변:\nHello!")
	assert.Equal(t, 1, artifact.TurnCount())
}

func TestRun_QAMarkdown(t *testing.T) {
	artifact, err := Run(Request{Input: chatSnapshot(), Kind: KindQAMarkdown, InputName: "chat.mhtml"})
	require.NoError(t, err)

	assert.Equal(t, "text/markdown; charset=utf-8", artifact.MIME)
	got := string(artifact.Bytes)
	assert.Contains(t, got, "# chat.mhtml 질문·답변 정리")
	assert.Contains(t, got, "## Turn 1")
	assert.Contains(t, got, "### 질문")
	assert.Contains(t, got, "Hi")
	assert.Contains(t, got, "### 답변")
	assert.Contains(t, got, "Hello!")
}

func TestRun_HTMLSanitize(t *testing.T) {
	artifact, err := Run(Request{Input: chatSnapshot(), Kind: KindHTMLSanitize, InputName: "chat.mhtml"})
	require.NoError(t, err)

	assert.Equal(t, "text/html; charset=utf-8", artifact.MIME)
	assert.Contains(t, string(artifact.Bytes), "Hello!")
	assert.Equal(t, 0, artifact.TurnCount())
}

func TestRun_TextToHTML(t *testing.T) {
	transcript := "[Turn 1]\n질문:\nQ\n\n답변:\nA\n"
	artifact, err := Run(Request{Input: []byte(transcript), Kind: KindTextToHTML, InputName: "chat.qa.txt"})
	require.NoError(t, err)

	assert.Equal(t, "text/html; charset=utf-8", artifact.MIME)
	got := string(artifact.Bytes)
	assert.Contains(t, got, `<div class="message user">`)
	assert.Contains(t, got, "Q")
	assert.Contains(t, got, "A")
	assert.Empty(t, artifact.Diagnostics)
}

func TestRun_TextToHTML_NoTurnsWarns(t *testing.T) {
	artifact, err := Run(Request{Input: []byte("freeform notes"), Kind: KindTextToHTML, InputName: "notes.txt"})
	require.NoError(t, err)
	assert.Contains(t, artifact.Diagnostics, "notes.txt")
}

func TestRun_QAMarkdownAssets_WritesImages(t *testing.T) {
	dir := t.TempDir()
	input := []byte(strings.Join([]string{
		`Content-Type: multipart/related; boundary="XYZ"`,
		"",
		"--XYZ",
		"Content-Type: text/html; charset=utf-8",
		"",
		`<html><body><user-query>pic?</user-query><message-content><p>here</p><img src="cid:pic@snap"></message-content></body></html>`,
		"--XYZ",
		"Content-Type: image/png",
		"Content-ID: <pic@snap>",
		"",
		"pngpayload",
		"--XYZ--",
	}, "\r\n"))

	assetsDir := filepath.Join(dir, "assets")
	artifact, err := Run(Request{
		Input:     input,
		Kind:      KindQAMarkdownAssets,
		InputName: "chat.mhtml",
		AssetsDir: assetsDir,
	})
	require.NoError(t, err)

	assert.Contains(t, string(artifact.Bytes), "![image](img001.png)")

	saved, err := os.ReadFile(filepath.Join(assetsDir, "img001.png"))
	require.NoError(t, err)
	assert.Equal(t, "pngpayload", string(saved))
}

func TestRun_QAMarkdownAssets_NoDirWarns(t *testing.T) {
	artifact, err := Run(Request{Input: chatSnapshot(), Kind: KindQAMarkdownAssets, InputName: "chat.mhtml"})
	require.NoError(t, err)
	assert.Contains(t, artifact.Diagnostics, "assets directory")
}

func TestRun_NoMarkersDiagnostic(t *testing.T) {
	input := []byte(strings.Join([]string{
		"Content-Type: multipart/related; boundary=b",
		"",
		"--b",
		"Content-Type: text/html",
		"",
		"<html><body><p>not a chat</p></body></html>",
		"--b--",
	}, "\r\n"))

	artifact, err := Run(Request{Input: input, Kind: KindQAText, InputName: "page.mhtml"})
	require.NoError(t, err)
	assert.Contains(t, artifact.Diagnostics, "page.mhtml")
	assert.Equal(t, 0, artifact.TurnCount())
}

func TestRun_UnknownKind(t *testing.T) {
	_, err := Run(Request{Input: chatSnapshot(), Kind: Kind("pdf-export")})
	assert.ErrorIs(t, err, ErrUnknownConverter)
}

func TestRun_MalformedInput(t *testing.T) {
	_, err := Run(Request{Input: []byte("not mime at all"), Kind: KindQAText})
	assert.ErrorIs(t, err, mhtml.ErrMalformedMIME)
}

func TestRun_ArticleMarkdown(t *testing.T) {
	para := strings.Repeat("본문 내용이 충분히 길어야 문단으로 인정됩니다. ", 3)
	input := []byte(strings.Join([]string{
		"Content-Type: multipart/related; boundary=b",
		"",
		"--b",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><head><title>기사 제목</title></head><body>" +
			"<p>" + para + "</p>" +
			"<p>짧음</p>" +
			"<p>분享VIP会员专享</p>" +
			"<p>" + para + "추가 문단입니다.</p>" +
			"</body></html>",
		"--b--",
	}, "\r\n"))

	artifact, err := Run(Request{Input: input, Kind: KindArticleMarkdown, InputName: "article.mhtml"})
	require.NoError(t, err)

	got := string(artifact.Bytes)
	assert.True(t, strings.HasPrefix(got, "# 기사 제목\n"))
	assert.Contains(t, got, "본문 내용이")
	assert.NotContains(t, got, "짧음")
	assert.NotContains(t, got, "VIP")
}
