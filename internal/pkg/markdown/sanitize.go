package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// maxWidthRe only admits the style value Images emits.
var maxWidthRe = regexp.MustCompile(`^\s*100%\s*;?\s*$`)

// policy allows exactly the markup the render passes can produce.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "em", "h1", "h2", "h3", "ul", "ol", "li", "code", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowStyles("max-width").Matching(maxWidthRe).OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)
	return p
}

// Sanitize strips every element, attribute and URL scheme the renderer does
// not emit. Safe for concurrent use.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

// RenderSafe renders doc and sanitizes the result.
func RenderSafe(doc string) string {
	return Sanitize(Render(doc))
}
