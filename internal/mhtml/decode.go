package mhtml

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

func init() {
	// Chat exports from Korean-locale browsers regularly carry these
	// charsets, mislabeled or not labeled at all.
	charset.RegisterEncoding("cp949", korean.EUCKR)
	charset.RegisterEncoding("euc-kr", korean.EUCKR)
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
}

// Bytes returns the transfer-decoded body of the part.
func (p *Part) Bytes() []byte {
	switch p.Encoding {
	case EncodingQuotedPrintable:
		return decodeQuotedPrintable(p.body)
	case EncodingBase64:
		return decodeBase64(p.body)
	default:
		// The part was never encoded; the body already is raw bytes.
		return []byte(p.body)
	}
}

// Text returns the body decoded to a string using the part's charset hint
// and the fallback chain.
func (p *Part) Text() string {
	return DecodeText(p.Bytes(), p.Charset)
}

// decodeQuotedPrintable decodes a quoted-printable body. Soft line breaks
// (an "=" immediately before a line break) are removed first; then each
// "=XX" hex escape contributes one byte and everything else passes through.
// Invalid escapes pass through literally rather than failing.
func decodeQuotedPrintable(s string) []byte {
	s = strings.ReplaceAll(s, "=\r\n", "")
	s = strings.ReplaceAll(s, "=\n", "")

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// decodeBase64 strips all whitespace and decodes. A body that still fails
// to decode is returned raw rather than dropped.
func decodeBase64(s string) []byte {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)

	if out, err := base64.StdEncoding.DecodeString(stripped); err == nil {
		return out
	}
	if out, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(stripped, "=")); err == nil {
		return out
	}
	return []byte(s)
}

// DecodeText converts raw bytes to a string by trying, in order: the
// declared charset, UTF-8, CP949, EUC-KR, Windows-1252 and Latin-1,
// returning the first decode that succeeds. When everything fails the bytes
// are decoded as non-strict UTF-8 with replacement characters, so this
// function never reports an error.
func DecodeText(raw []byte, declared string) string {
	attempts := []func([]byte) (string, bool){
		func(b []byte) (string, bool) { return decodeDeclared(b, declared) },
		decodeUTF8,
		decoderFor(korean.EUCKR), // cp949
		decoderFor(korean.EUCKR), // euc-kr
		decoderFor(charmap.Windows1252),
		decoderFor(charmap.ISO8859_1),
	}
	for _, attempt := range attempts {
		if s, ok := attempt(raw); ok {
			return s
		}
	}
	return strings.ToValidUTF8(string(raw), "�")
}

// decodeDeclared resolves the declared charset through the go-message
// registry (which init extends with the Korean and Windows codepages).
func decodeDeclared(raw []byte, declared string) (string, bool) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", false
	}
	r, err := charset.Reader(strings.ToLower(declared), bytes.NewReader(raw))
	if err != nil {
		return "", false
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}
	return requireClean(string(decoded))
}

func decodeUTF8(raw []byte) (string, bool) {
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func decoderFor(enc encoding.Encoding) func([]byte) (string, bool) {
	return func(raw []byte) (string, bool) {
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		return requireClean(string(decoded))
	}
}

// requireClean treats a replacement character in the output as a failed
// decode, so the next charset in the chain gets a chance. x/text decoders
// substitute rather than error on invalid input.
func requireClean(s string) (string, bool) {
	if strings.ContainsRune(s, '�') {
		return "", false
	}
	return s, true
}
