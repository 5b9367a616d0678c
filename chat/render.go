package chat

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML converts assistant text into safe HTML. Text is escaped,
// **bold** spans become <strong> and newlines become <br>. An unmatched
// ** is kept literally.
func RenderHTML(text string) string {
	root := &html.Node{Type: html.DocumentNode}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			root.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
		}
		appendInline(root, line)
	}

	var b strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		// html.Render only fails on writer errors; strings.Builder never returns one.
		_ = html.Render(&b, n)
	}
	return b.String()
}

func appendInline(parent *html.Node, line string) {
	for line != "" {
		start := strings.Index(line, "**")
		if start < 0 {
			appendText(parent, line)
			return
		}
		end := strings.Index(line[start+2:], "**")
		if end < 0 {
			appendText(parent, line)
			return
		}
		appendText(parent, line[:start])
		inner := line[start+2 : start+2+end]
		if inner == "" {
			appendText(parent, "****")
		} else {
			strong := &html.Node{Type: html.ElementNode, Data: "strong", DataAtom: atom.Strong}
			appendText(strong, inner)
			parent.AppendChild(strong)
		}
		line = line[start+2+end+2:]
	}
}

func appendText(parent *html.Node, s string) {
	if s == "" {
		return
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}
