// Package rdoc normalizes RDoc-generated Ruby documentation pages.
package rdoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/filter"
)

// CleanHTML rewrites a raw RDoc page into normalized form. The steps
// run in a fixed order; later steps assume earlier ones already ran
// (code whitespace normalization requires nested code to be unwrapped
// first), so the order below must not be rearranged.
type CleanHTML struct{}

// Name returns the filter name
func (CleanHTML) Name() string { return "rdoc/clean_html" }

// Apply runs the cleanup pass
func (f CleanHTML) Apply(doc *goquery.Document) error {
	f.stripDecoration(doc)
	f.unwrapContainers(doc)
	f.remapHeadings(doc)
	filter.Rename(doc.Find("var"), "code")
	if err := f.rewriteMethodDetails(doc); err != nil {
		return err
	}
	f.rewriteSignatures(doc)
	filter.TrimText(doc.Find("em, strong"))
	filter.Unwrap(doc.Find("code code"))
	filter.NormalizeText(doc.Find("code"))
	return nil
}

// stripDecoration removes purely navigational and decorative elements
func (CleanHTML) stripDecoration(doc *goquery.Document) {
	doc.Find("ul.breadcrumb, span.anchor-icon, img.permalink-icon").Remove()
}

// unwrapContainers replaces structural wrappers with their children
func (CleanHTML) unwrapContainers(doc *goquery.Document) {
	filter.Unwrap(doc.Find("div.section, div.content, div.method-description, ul.method-list"))
}

// remapHeadings adjusts heading levels. The scoping here is this
// filter's own contract: every h1 except the first becomes h2, h3
// elements that are direct children of a method detail become h5, and
// every h6 anywhere becomes h4.
func (CleanHTML) remapHeadings(doc *goquery.Document) {
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		if i > 0 {
			filter.Rename(s, "h2")
		}
	})
	filter.Rename(doc.Find("div.method-detail > h3"), "h5")
	filter.Rename(doc.Find("h6"), "h4")
}

// rewriteMethodDetails reworks each method-detail block: the heading
// text moves into a method-name span, the id of the detail's anchor
// relocates onto that span, the container's own id is cleared to avoid
// duplicate anchors, and a trailing permalink becomes a "source" link.
func (f CleanHTML) rewriteMethodDetails(doc *goquery.Document) error {
	var defect error
	doc.Find("div.method-detail").EachWithBreak(func(_ int, detail *goquery.Selection) bool {
		heading := detail.Find("h1, h2, h3, h4, h5, h6").First()
		if heading.Length() == 0 {
			defect = domain.NewFilterError(f.Name(), "method detail without heading")
			return false
		}

		headingNode := heading.Nodes[0]

		// Detach the permalink before building the name span so its
		// text does not end up in the method name.
		permalink := heading.Find("a.permalink")
		if permalink.Length() > 0 {
			permalink.Remove()
		}

		name := filter.NewElement("span")
		name.Attr = append(name.Attr, html.Attribute{Key: "class", Val: "method-name"})
		filter.MoveChildren(headingNode, name)
		headingNode.AppendChild(name)
		nameSel := heading.Find("span.method-name")
		filter.TrimText(nameSel)

		if anchor := detail.Find("a[id]").First(); anchor.Length() > 0 {
			if id, ok := anchor.Attr("id"); ok {
				nameSel.SetAttr("id", id)
			}
			anchor.Remove()
		}
		detail.RemoveAttr("id")

		if permalink.Length() > 0 {
			source := permalink.Nodes[0]
			filter.InsertAfter(name, source)
			sourceSel := heading.Find("a.permalink")
			sourceSel.SetAttr("class", "method-source")
			filter.SetText(sourceSel, "source")
		}

		return true
	})
	return defect
}

// rewriteSignatures converts signature blocks into preformatted code
// blocks with a language stamp
func (CleanHTML) rewriteSignatures(doc *goquery.Document) {
	doc.Find("div.method-signature, p.method-signature").Each(func(_ int, s *goquery.Selection) {
		filter.Rename(s, "pre")
		filter.SetText(s, strings.TrimSpace(s.Text()))
		s.SetAttr("data-language", "ruby")
	})
}
