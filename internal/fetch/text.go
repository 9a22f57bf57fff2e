package fetch

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText returns the readable text of an HTML fragment, skipping
// scripts and styles. Entity-escaped markup (as Reddit returns it) is
// unescaped first.
func VisibleText(fragment string) string {
	if strings.Contains(fragment, "&lt;") {
		fragment = html.UnescapeString(fragment)
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.Join(parts, " ")
}
