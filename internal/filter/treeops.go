package filter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// whitespaceRun matches runs of whitespace, including newlines
var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseSpace collapses runs of whitespace to single spaces and
// trims the ends.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Rename changes the tag of every matched element, preserving
// attributes and children.
func Rename(sel *goquery.Selection, tag string) {
	for _, node := range sel.Nodes {
		if node.Type != html.ElementNode {
			continue
		}
		node.Data = tag
		node.DataAtom = atom.Lookup([]byte(tag))
	}
}

// Unwrap replaces every matched element with its children, splicing
// them into the parent at the element's position.
func Unwrap(sel *goquery.Selection) {
	for _, node := range sel.Nodes {
		parent := node.Parent
		if parent == nil {
			continue
		}
		for node.FirstChild != nil {
			child := node.FirstChild
			node.RemoveChild(child)
			parent.InsertBefore(child, node)
		}
		parent.RemoveChild(node)
	}
}

// NewElement creates a detached element node with the given tag
func NewElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// NewText creates a detached text node
func NewText(content string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: content,
	}
}

// InsertAfter inserts newNode as the next sibling of ref
func InsertAfter(ref, newNode *html.Node) {
	if ref.Parent == nil {
		return
	}
	if ref.NextSibling != nil {
		ref.Parent.InsertBefore(newNode, ref.NextSibling)
	} else {
		ref.Parent.AppendChild(newNode)
	}
}

// MoveChildren detaches all children of src and appends them to dst
func MoveChildren(src, dst *html.Node) {
	for src.FirstChild != nil {
		child := src.FirstChild
		src.RemoveChild(child)
		dst.AppendChild(child)
	}
}

// SetText replaces the content of every matched element with a single
// text node. Any child markup is discarded.
func SetText(sel *goquery.Selection, text string) {
	for _, node := range sel.Nodes {
		for node.FirstChild != nil {
			node.RemoveChild(node.FirstChild)
		}
		node.AppendChild(NewText(text))
	}
}

// HasElementChildren reports whether the node has any element children
func HasElementChildren(node *html.Node) bool {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// TrimText trims leading whitespace from the first text-node child and
// trailing whitespace from the last, leaving inner markup untouched.
func TrimText(sel *goquery.Selection) {
	for _, node := range sel.Nodes {
		if first := node.FirstChild; first != nil && first.Type == html.TextNode {
			first.Data = strings.TrimLeft(first.Data, " \t\n\r")
		}
		if last := node.LastChild; last != nil && last.Type == html.TextNode {
			last.Data = strings.TrimRight(last.Data, " \t\n\r")
		}
	}
}

// NormalizeText collapses whitespace in the concatenated text of every
// matched element that carries no element children. Elements with
// nested markup are left alone so the markup survives; unwrap nested
// elements first if they should be flattened.
func NormalizeText(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		if HasElementChildren(node) {
			return
		}
		SetText(s, CollapseSpace(s.Text()))
	})
}
