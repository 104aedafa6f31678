package suggest

import (
	"strings"

	"golang.org/x/net/html"
)

var boldMarkup = strings.NewReplacer("<b>", "", "</b>", "")

// StripMarkup removes the <b> and </b> highlight markers some providers embed.
// Any other markup is left alone.
func StripMarkup(s string) string {
	return boldMarkup.Replace(s)
}

// DecodeEntities decodes named, decimal and hex HTML character references.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// Sanitize strips highlight markers, then decodes entities.
func Sanitize(s string) string {
	return DecodeEntities(StripMarkup(s))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
