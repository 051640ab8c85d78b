package format

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// gm renders GFM: the change tables and strikethrough need the extension
// set beyond plain CommonMark.
var gm = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML converts a rendered Markdown answer to HTML for embedding in a
// dashboard page.
func HTML(md string) string {
	var buf bytes.Buffer
	if err := gm.Convert([]byte(md), &buf); err != nil {
		// Fallback: escape and return as-is.
		return htmlEscape(md)
	}
	return strings.TrimSpace(buf.String())
}

// htmlEscape escapes <, >, & for HTML.
func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
