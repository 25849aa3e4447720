// Package filter implements the HTML rewrite rules that turn raw
// scraped pages into normalized documentation pages. A Filter mutates
// the parsed page tree in place; a Chain runs one source's filters in
// registration order. Chains hold no per-page state and are safe to
// run concurrently as long as each invocation gets its own document.
package filter

import (
	"github.com/PuerkitoBio/goquery"
)

// Filter is a single tree-transformation rule. Apply mutates doc in
// place. An error return means a structural assumption was violated
// (an expected node missing); that is a defect which aborts the
// enclosing page generation, not a recoverable condition.
type Filter interface {
	// Name identifies the filter in defect reports
	Name() string
	// Apply transforms the page tree
	Apply(doc *goquery.Document) error
}

// Func adapts a function to the Filter interface
type Func struct {
	FilterName string
	Fn         func(doc *goquery.Document) error
}

// Name returns the filter name
func (f Func) Name() string { return f.FilterName }

// Apply runs the wrapped function
func (f Func) Apply(doc *goquery.Document) error { return f.Fn(doc) }

// Chain is the ordered filter composition for one documentation
// source. Immutable once constructed; shared read-only across
// concurrent page transformations.
type Chain struct {
	slug    string
	filters []Filter
}

// NewChain creates a chain bound to a source slug
func NewChain(slug string, filters ...Filter) *Chain {
	fs := make([]Filter, len(filters))
	copy(fs, filters)
	return &Chain{slug: slug, filters: fs}
}

// Slug returns the source slug the chain is bound to
func (c *Chain) Slug() string { return c.slug }

// Len returns the number of filters in the chain
func (c *Chain) Len() int { return len(c.filters) }

// Apply runs every filter strictly in registration order. Each
// filter's output tree is the next filter's input. The first failing
// filter aborts the chain.
func (c *Chain) Apply(doc *goquery.Document) error {
	for _, f := range c.filters {
		if err := f.Apply(doc); err != nil {
			return err
		}
	}
	return nil
}
