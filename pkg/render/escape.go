package render

import (
	"html"
	"strings"
)

// attrWhitespace keeps attribute values on one line. It runs after entity
// escaping, so the '&' it introduces is never re-escaped.
var attrWhitespace = strings.NewReplacer(
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeHTML escapes text content.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	return attrWhitespace.Replace(html.EscapeString(s))
}

// isHandlerAttr reports whether name is an inline event handler attribute
// (onclick, onSubmit, ...). Browsers execute those as script.
func isHandlerAttr(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}
