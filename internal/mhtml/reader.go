// Package mhtml parses MHTML (multipart-MIME web page snapshot) files into
// typed, charset-correct parts and resolves content-id references between
// them.
//
// The splitter is deliberately hand-rolled rather than built on a MIME mail
// reader: browser snapshot writers are sloppier than mail clients, and the
// downstream scanners need the part bodies byte-for-byte as they appeared in
// the file. Only the charset machinery is shared with the mail world, via
// the go-message charset registry.
package mhtml

import (
	"fmt"
	"regexp"
	"strings"
)

// boundaryRe extracts the boundary parameter from a Content-Type value,
// tolerating both quoted and bare tokens.
var boundaryRe = regexp.MustCompile(`(?i)boundary="?([^";\r\n]+)"?`)

// Parse splits a raw MHTML file into a Document.
//
// It fails with ErrMalformedMIME when the file has no header/body separator
// or the root Content-Type lacks a boundary parameter, and with
// ErrMissingHTMLPart when splitting succeeds but no text/html part exists.
func Parse(raw []byte) (*Document, error) {
	// Treat the buffer as byte-per-character text so that all offsets
	// survive; real text decoding happens later, per part, with the
	// right charset.
	text := string(raw)

	head, body, ok := splitHeaderBlock(text)
	if !ok {
		return nil, fmt.Errorf("%w: missing header/body separator", ErrMalformedMIME)
	}

	rootHeaders := parseHeaderBlock(head)

	m := boundaryRe.FindStringSubmatch(rootHeaders["content-type"])
	if m == nil {
		return nil, fmt.Errorf("%w: root content-type has no boundary parameter", ErrMalformedMIME)
	}
	boundary := strings.TrimSpace(m[1])

	doc := &Document{
		RootHeaders: rootHeaders,
		Boundary:    boundary,
	}

	segments := strings.Split(body, "--"+boundary)
	// segments[0] is the preamble and is discarded.
	for _, seg := range segments[1:] {
		if strings.HasPrefix(seg, "--") {
			// Terminating delimiter.
			continue
		}
		seg = trimLeadingNewline(seg)
		if strings.TrimSpace(seg) == "" {
			continue
		}

		partHead, partBody, ok := splitHeaderBlock(seg)
		if !ok {
			// Headers with no body; keep what we have.
			partHead, partBody = seg, ""
		}
		// The boundary line owns the final line break, not the body.
		partBody = trimTrailingNewline(partBody)

		doc.Parts = append(doc.Parts, newPart(parseHeaderBlock(partHead), partBody))
	}

	if doc.FindHTMLPart() == nil {
		return nil, ErrMissingHTMLPart
	}
	return doc, nil
}

// FindHTMLPart returns the first text/html part, or nil.
func (d *Document) FindHTMLPart() *Part {
	for _, p := range d.Parts {
		if p.ContentType == "text/html" {
			return p
		}
	}
	return nil
}

// HTMLParts returns every text/html part in document order.
func (d *Document) HTMLParts() []*Part {
	var out []*Part
	for _, p := range d.Parts {
		if p.ContentType == "text/html" {
			out = append(out, p)
		}
	}
	return out
}

// MainHTML picks the HTML part most likely to be the captured conversation:
// the first part containing a known conversation marker, else the longest
// text/html part. Chat exports often embed secondary HTML parts (ad frames,
// extension panes) that would otherwise win by position.
func (d *Document) MainHTML() (string, error) {
	parts := d.HTMLParts()
	if len(parts) == 0 {
		return "", ErrMissingHTMLPart
	}

	markers := []string{
		"data-message-author-role",
		"<user-query",
		"<message-content",
	}

	var texts []string
	for _, p := range parts {
		texts = append(texts, p.Text())
	}
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return t, nil
			}
		}
	}

	longest := texts[0]
	for _, t := range texts[1:] {
		if len(t) > len(longest) {
			longest = t
		}
	}
	return longest, nil
}

func newPart(headers map[string]string, body string) *Part {
	p := &Part{
		Headers:         headers,
		ContentID:       headers["content-id"],
		ContentLocation: headers["content-location"],
		body:            body,
	}

	ct := headers["content-type"]
	if ct == "" {
		ct = "text/plain"
	}
	mimeType, params := splitTypeParams(ct)
	p.ContentType = strings.ToLower(mimeType)
	p.Charset = params["charset"]

	switch strings.ToLower(strings.TrimSpace(headers["content-transfer-encoding"])) {
	case "quoted-printable":
		p.Encoding = EncodingQuotedPrintable
	case "base64":
		p.Encoding = EncodingBase64
	default:
		p.Encoding = EncodingIdentity
	}
	return p
}

// splitHeaderBlock splits a header block from the body at the first blank
// line, preferring CRLF but accepting bare LF.
func splitHeaderBlock(s string) (head, body string, ok bool) {
	if i := strings.Index(s, "\r\n\r\n"); i >= 0 {
		return s[:i], s[i+4:], true
	}
	if i := strings.Index(s, "\n\n"); i >= 0 {
		return s[:i], s[i+2:], true
	}
	return "", "", false
}

// parseHeaderBlock parses raw header lines into a lower-cased-key map.
// A line beginning with whitespace continues the previous header's value
// (RFC 2822 folding); the folded content is appended with a single space.
func parseHeaderBlock(head string) map[string]string {
	headers := make(map[string]string)
	var lastKey string

	for _, line := range strings.Split(strings.ReplaceAll(head, "\r\n", "\n"), "\n") {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if lastKey != "" {
				headers[lastKey] += " " + strings.TrimSpace(line)
			}
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		lastKey = strings.ToLower(strings.TrimSpace(key))
		headers[lastKey] = strings.TrimSpace(value)
	}
	return headers
}

// splitTypeParams splits a Content-Type value into its bare type and a
// lower-cased parameter map. Quoting is tolerated but not required.
func splitTypeParams(v string) (string, map[string]string) {
	fields := strings.Split(v, ";")
	params := make(map[string]string)
	for _, f := range fields[1:] {
		key, value, found := strings.Cut(f, "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		params[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return strings.TrimSpace(fields[0]), params
}

func trimLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	if strings.HasPrefix(s, "\n") {
		return s[1:]
	}
	return s
}

func trimTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	if strings.HasSuffix(s, "\n") {
		return s[:len(s)-1]
	}
	return s
}
