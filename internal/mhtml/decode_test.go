package mhtml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

func TestDecodeQuotedPrintable_Escapes(t *testing.T) {
	assert.Equal(t, []byte("a=b"), decodeQuotedPrintable("a=3Db"))
	assert.Equal(t, []byte("café"), decodeQuotedPrintable("caf=C3=A9"))
}

func TestDecodeQuotedPrintable_SoftBreaks(t *testing.T) {
	assert.Equal(t, []byte("joined"), decodeQuotedPrintable("joi=\r\nned"))
	assert.Equal(t, []byte("joined"), decodeQuotedPrintable("joi=\nned"))
}

func TestDecodeQuotedPrintable_InvalidEscapePassesThrough(t *testing.T) {
	assert.Equal(t, []byte("=ZZ"), decodeQuotedPrintable("=ZZ"))
	assert.Equal(t, []byte("100% ="), decodeQuotedPrintable("100% ="))
}

func TestDecodeQuotedPrintable_AllByteValues(t *testing.T) {
	// Every byte value must survive an encode/decode round trip.
	var want []byte
	var encoded string
	for i := 0; i < 256; i++ {
		want = append(want, byte(i))
		encoded += "=" + string("0123456789ABCDEF"[i>>4]) + string("0123456789ABCDEF"[i&0xF])
	}
	assert.Equal(t, want, decodeQuotedPrintable(encoded))
}

func TestDecodeBase64_Whitespace(t *testing.T) {
	// Browser writers wrap base64 bodies at 76 columns.
	assert.Equal(t, []byte("hello world"), decodeBase64("aGVsbG8g\r\nd29ybGQ="))
}

func TestDecodeBase64_MissingPadding(t *testing.T) {
	assert.Equal(t, []byte("hello"), decodeBase64("aGVsbG8"))
}

func TestDecodeBase64_InvalidReturnsRaw(t *testing.T) {
	assert.Equal(t, []byte("!!!not base64!!!"), decodeBase64("!!!not base64!!!"))
}

func TestDecodeText_UTF8Passthrough(t *testing.T) {
	assert.Equal(t, "안녕하세요", DecodeText([]byte("안녕하세요"), "utf-8"))
}

func TestDecodeText_DeclaredEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte("안녕"))
	require.NoError(t, err)

	assert.Equal(t, "안녕", DecodeText(encoded, "euc-kr"))
}

func TestDecodeText_FallbackWithoutDeclaration(t *testing.T) {
	// EUC-KR bytes with no charset hint: invalid UTF-8, so the chain
	// should land on the EUC-KR attempt.
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte("한국어 문장입니다"))
	require.NoError(t, err)

	assert.Equal(t, "한국어 문장입니다", DecodeText(encoded, ""))
}

func TestDecodeText_WrongDeclarationRecovers(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte("잘못된 선언"))
	require.NoError(t, err)

	// utf-8 declared but the bytes are EUC-KR; the fallback chain wins.
	assert.Equal(t, "잘못된 선언", DecodeText(encoded, "utf-8"))
}

func TestDecodeText_NeverFails(t *testing.T) {
	// A byte soup no charset accepts still comes back as valid UTF-8.
	got := DecodeText([]byte{0xFF, 0xFE, 0x00, 0x80, 0xFF}, "")
	assert.NotEmpty(t, got)
	assert.True(t, len(got) > 0)
}

func TestPartText_QuotedPrintableEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte("질문"))
	require.NoError(t, err)

	var qp string
	for _, b := range encoded {
		qp += "=" + string("0123456789ABCDEF"[b>>4]) + string("0123456789ABCDEF"[b&0xF])
	}

	p := newPart(map[string]string{
		"content-type":              "text/html; charset=euc-kr",
		"content-transfer-encoding": "quoted-printable",
	}, qp)

	assert.Equal(t, "질문", p.Text())
}
