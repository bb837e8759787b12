package report

import (
	"html/template"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes text for element content and quoted attributes. It
// produces the same output as escapeHtml in client.js.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func escapeFunc(s string) template.HTML {
	return template.HTML(EscapeHTML(s))
}
