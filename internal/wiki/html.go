package wiki

import (
	"strings"

	"golang.org/x/net/html"
)

// FlattenHTML strips markup from an API HTML extract, leaving readable text.
// Parse errors fall back to the raw input rather than losing the summary.
func FlattenHTML(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		// Keep paragraphs from running together once whitespace is collapsed
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "li" || n.Data == "br") {
			buf.WriteString(" ")
		}
	}
	walk(doc)

	return strings.TrimSpace(strings.Join(strings.Fields(buf.String()), " "))
}
