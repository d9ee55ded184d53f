package mhtml

import "errors"

// Parsing errors. Both are terminal for a single conversion; callers decide
// whether to retry with a different strategy.
var (
	ErrMalformedMIME   = errors.New("malformed MIME")
	ErrMissingHTMLPart = errors.New("no text/html part found")
)

// TransferEncoding is the Content-Transfer-Encoding of a part body.
type TransferEncoding int

const (
	EncodingIdentity TransferEncoding = iota
	EncodingQuotedPrintable
	EncodingBase64
)

func (e TransferEncoding) String() string {
	switch e {
	case EncodingQuotedPrintable:
		return "quoted-printable"
	case EncodingBase64:
		return "base64"
	default:
		return "identity"
	}
}

// Part is a single MIME part of an MHTML snapshot. Parts are created once
// during splitting and immutable afterwards; the Document owns them.
type Part struct {
	// Headers holds all part headers with lower-cased keys. Folded
	// continuation lines are merged with a single space.
	Headers map[string]string

	// ContentType is the bare MIME type, lower-cased, parameters stripped.
	ContentType string

	// Charset is the charset parameter of Content-Type, or "" when absent.
	Charset string

	// Encoding is the declared transfer encoding.
	Encoding TransferEncoding

	// ContentID and ContentLocation are the raw header values ("" if unset).
	ContentID       string
	ContentLocation string

	// body is the raw part body, byte-per-character as it appeared in the
	// file. Transfer decoding happens in Bytes, charset decoding in Text.
	body string
}

// Document is a parsed MHTML file: root headers plus the ordered parts.
type Document struct {
	RootHeaders map[string]string
	Boundary    string
	Parts       []*Part
}
