package mhtml

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	cssURLRe    = regexp.MustCompile(`(?i)url\(['"]?(cid:[^)"']+)['"]?\)`)
	cssImportRe = regexp.MustCompile(`(?i)@import\s+['"](cid:[^'"\s;]+)['"]`)
)

// NormalizeKey turns a content-id or content-location value into a lookup
// key: the cid: scheme and surrounding angle brackets are stripped and
// whitespace trimmed.
func NormalizeKey(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "cid:")
	v = strings.Trim(v, "<>")
	return strings.TrimSpace(v)
}

// ResourceMap maps normalized content identifiers to parts. A part may be
// registered under both its content-id and its content-location.
type ResourceMap map[string]*Part

// BuildResourceMap indexes every part of the document by its normalized
// content-id and content-location.
func (d *Document) BuildResourceMap() ResourceMap {
	res := make(ResourceMap)
	for _, p := range d.Parts {
		if p.ContentID != "" {
			res[NormalizeKey(p.ContentID)] = p
		}
		if p.ContentLocation != "" {
			res[NormalizeKey(p.ContentLocation)] = p
		}
	}
	return res
}

// Lookup resolves a cid: reference (or bare key) to a part.
func (m ResourceMap) Lookup(ref string) *Part {
	return m[NormalizeKey(ref)]
}

// DataURI renders a part as a data: URI with base64 payload.
func DataURI(p *Part) string {
	mime := p.ContentType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Bytes())
}

// RewriteCIDReferences rewrites every cid: reference in the document into an
// inline data URI:
//
//   - src, href and poster attributes;
//   - <link> elements pointing at a text/css part become inline <style>
//     elements (their CSS itself rewritten); unresolved <link>s are removed;
//   - url(cid:...) and @import "cid:..." inside style attributes and
//     <style> blocks;
//   - rel="preload" links are dropped afterwards, they serve no purpose in
//     a static export.
//
// Unresolved references are reported as warnings, never as errors; the
// attribute is left untouched so the reader can still see what was meant.
func RewriteCIDReferences(doc *goquery.Document, res ResourceMap) []string {
	var warnings []string
	warnf := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	// Stylesheet links first: a resolved text/css part is inlined so its
	// own cid references can be rewritten in the same pass.
	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "cid:") {
			return
		}
		part := res.Lookup(href)
		if part != nil && part.ContentType == "text/css" {
			css, cssWarnings := RewriteCSS(part.Text(), res)
			warnings = append(warnings, cssWarnings...)
			sel.ReplaceWithHtml("<style>" + css + "</style>")
			return
		}
		warnf("stylesheet %s not found in archive, link removed", href)
		sel.Remove()
	})

	for _, attr := range []string{"src", "href", "poster"} {
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			val, _ := sel.Attr(attr)
			if !strings.HasPrefix(val, "cid:") {
				return
			}
			part := res.Lookup(val)
			if part == nil {
				warnf("unresolved %s reference %s", attr, val)
				return
			}
			sel.SetAttr(attr, DataURI(part))
		})
	}

	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if !strings.Contains(style, "cid:") {
			return
		}
		rewritten, cssWarnings := RewriteCSS(style, res)
		warnings = append(warnings, cssWarnings...)
		sel.SetAttr("style", rewritten)
	})

	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		css := sel.Text()
		if !strings.Contains(css, "cid:") {
			return
		}
		rewritten, cssWarnings := RewriteCSS(css, res)
		warnings = append(warnings, cssWarnings...)
		sel.SetText(rewritten)
	})

	doc.Find("link[rel]").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		for _, token := range strings.Fields(strings.ToLower(rel)) {
			if token == "preload" {
				sel.Remove()
				return
			}
		}
	})

	return warnings
}

// RewriteCSS rewrites url(cid:...) and @import "cid:..." occurrences in a
// CSS text into data URIs. Unresolved references are left as-is.
func RewriteCSS(css string, res ResourceMap) (string, []string) {
	var warnings []string

	out := cssURLRe.ReplaceAllStringFunc(css, func(match string) string {
		ref := cssURLRe.FindStringSubmatch(match)[1]
		part := res.Lookup(ref)
		if part == nil {
			warnings = append(warnings, "unresolved css url "+ref)
			return match
		}
		return "url('" + DataURI(part) + "')"
	})

	out = cssImportRe.ReplaceAllStringFunc(out, func(match string) string {
		ref := cssImportRe.FindStringSubmatch(match)[1]
		part := res.Lookup(ref)
		if part == nil {
			warnings = append(warnings, "unresolved css import "+ref)
			return match
		}
		return "@import url('" + DataURI(part) + "')"
	})

	return out, warnings
}
