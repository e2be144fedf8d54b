package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"gradharvest/lib/textutil"
)

// Text returns the cleaned visible text of a selection. Text nodes are joined
// with single spaces so words from sibling elements never run together.
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	var parts []string
	for _, n := range sel.Nodes {
		appendTextNodes(n, &parts)
	}
	return textutil.Collapse(strings.Join(parts, " "))
}

func appendTextNodes(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		trimmed := strings.TrimSpace(node.Data)
		if trimmed != "" {
			*parts = append(*parts, trimmed)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		appendTextNodes(child, parts)
		child = child.NextSibling
	}
}
