// Package markdown converts the storefront's markdown subset to HTML.
//
// Rendering is a fixed, ordered sequence of textual substitution passes, not a
// parse tree. Each pass feeds the next, so their order is part of the output
// contract. Malformed input (unbalanced `*`, nested constructs) renders to
// whatever the passes produce, and Render(Render(x)) is not expected to equal
// Render(x). Output is raw HTML and must go through Sanitize before it reaches
// a browser.
package markdown

import (
	"regexp"
	"strings"
)

// Pass is a single string -> string rewrite step.
type Pass struct {
	Name  string
	Apply func(string) string
}

var (
	boldRe    = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)
	italicRe  = regexp.MustCompile(`\*(.*?)\*`)
	h3Re      = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re      = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re      = regexp.MustCompile(`(?m)^# (.*)$`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	imageRe   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	ulItemRe  = regexp.MustCompile(`(?m)^- (.*)$`)
	ulMergeRe = regexp.MustCompile(`</ul>\n?<ul>`)
	olItemRe  = regexp.MustCompile(`(?m)^\d+\. (.*)$`)
	olMergeRe = regexp.MustCompile(`</ol>\n?<ol>`)
	codeRe    = regexp.MustCompile("`([^`]+)`")
)

// Passes is the rendering pipeline in application order.
var Passes = []Pass{
	{Name: "bold", Apply: Bold},
	{Name: "italic", Apply: Italic},
	{Name: "headings", Apply: Headings},
	{Name: "links", Apply: Links},
	{Name: "images", Apply: Images},
	{Name: "unordered-lists", Apply: UnorderedLists},
	{Name: "ordered-lists", Apply: OrderedLists},
	{Name: "inline-code", Apply: InlineCode},
	{Name: "line-breaks", Apply: LineBreaks},
}

// Render converts doc to HTML by running every pass in order. It never fails.
func Render(doc string) string {
	out := doc
	for _, p := range Passes {
		out = p.Apply(out)
	}
	return out
}

// Bold rewrites **text** to <strong>text</strong>. Matches may span lines.
func Bold(s string) string {
	return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
}

// Italic rewrites *text* to <em>text</em> within a single line. Run after
// Bold, so stray single asterisks left over from bold extraction become italics.
func Italic(s string) string {
	return italicRe.ReplaceAllString(s, "<em>$1</em>")
}

// Headings rewrites "# ", "## " and "### " lines to h1..h3.
func Headings(s string) string {
	s = h3Re.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	return h1Re.ReplaceAllString(s, "<h1>$1</h1>")
}

// Links rewrites [text](url) to an anchor. A bracket directly preceded by "!"
// is image syntax and is left for Images.
func Links(s string) string {
	matches := linkRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && s[start-1] == '!' {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(`<a href="`)
		b.WriteString(s[m[4]:m[5]])
		b.WriteString(`">`)
		b.WriteString(s[m[2]:m[3]])
		b.WriteString(`</a>`)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// Images rewrites ![alt](url) to an <img> tag. The literal "!" is required.
func Images(s string) string {
	return imageRe.ReplaceAllString(s, `<img src="$2" alt="$1" style="max-width:100%;" />`)
}

// UnorderedLists wraps each "- item" line in its own list, then merges
// neighbouring lists into one.
func UnorderedLists(s string) string {
	s = ulItemRe.ReplaceAllString(s, "<ul><li>$1</li></ul>")
	return ulMergeRe.ReplaceAllString(s, "")
}

// OrderedLists is UnorderedLists for "N. item" lines.
func OrderedLists(s string) string {
	s = olItemRe.ReplaceAllString(s, "<ol><li>$1</li></ol>")
	return olMergeRe.ReplaceAllString(s, "")
}

// InlineCode rewrites `text` to <code>text</code>.
func InlineCode(s string) string {
	return codeRe.ReplaceAllString(s, "<code>$1</code>")
}

// LineBreaks replaces every remaining newline with <br />.
func LineBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "<br />")
}
