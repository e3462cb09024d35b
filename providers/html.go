package providers

import (
	"strings"

	"golang.org/x/net/html"
)

// FindAll walks the tree depth-first and returns up to limit matching
// element nodes. A limit of zero or less means no limit.
func FindAll(root *html.Node, match func(*html.Node) bool, limit int) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
			if limit > 0 && len(found) >= limit {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
	return found
}

func FindFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	found := FindAll(root, match, 1)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func HasClass(n *html.Node, class string) bool {
	value, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(value) {
		if c == class {
			return true
		}
	}
	return false
}

func Tag(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Data == name
	}
}

// Text concatenates every text node below n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
