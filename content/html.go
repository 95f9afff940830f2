package content

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText flattens blog HTML into readable text, one line per text node.
func PlainText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

// Preview returns at most limit runes of the post body as plain text.
func (p BlogPost) Preview(limit int) string {
	text := []rune(PlainText(p.Content))
	if len(text) <= limit {
		return string(text)
	}
	return string(text[:limit])
}
