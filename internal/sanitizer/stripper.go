package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripperer removes markup from user supplied text.
type HTMLStripperer interface {
	StripHTML(s string) string
}

type HTMLStripper struct {
	bm *bluemonday.Policy
}

var _ HTMLStripperer = (*HTMLStripper)(nil)

// NewHTMLStripper return a new instance of blue monday policy
func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{
		bm: bluemonday.StrictPolicy(),
	}
}

// StripHTML drops every tag, unescapes the entities bluemonday leaves behind
// and collapses runs of whitespace, so "<b>Fra</b>&amp;nce" searches as "Fra&nce".
func (hs *HTMLStripper) StripHTML(s string) string {
	clean := html.UnescapeString(hs.bm.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}
