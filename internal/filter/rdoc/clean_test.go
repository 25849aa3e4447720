package rdoc

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/filter"
)

func parse(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func apply(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc := parse(t, body)
	require.NoError(t, CleanHTML{}.Apply(doc))
	return doc
}

func TestMethodDetailRework(t *testing.T) {
	doc := apply(t, `<div class="method-detail" id="m1"><a id="a1"></a><h6>Title</h6></div>`)

	detail := doc.Find("div.method-detail")
	require.Equal(t, 1, detail.Length())
	_, hasID := detail.Attr("id")
	assert.False(t, hasID, "container id is cleared")

	assert.Equal(t, 0, detail.Find("a[id]").Length(), "anchor element is removed")

	h4 := detail.Find("h4")
	require.Equal(t, 1, h4.Length(), "h6 heading is promoted to h4")

	name := h4.Find("span.method-name")
	require.Equal(t, 1, name.Length())
	assert.Equal(t, "Title", name.Text())
	id, _ := name.Attr("id")
	assert.Equal(t, "a1", id, "anchor id relocates onto the method name")
}

func TestMethodDetailPermalinkBecomesSourceLink(t *testing.T) {
	doc := apply(t, `<div class="method-detail">`+
		`<h6>each <a class="permalink" href="#l42">&para;</a></h6>`+
		`</div>`)

	name := doc.Find("span.method-name")
	require.Equal(t, 1, name.Length())
	assert.Equal(t, "each", name.Text(), "permalink text stays out of the method name")

	source := doc.Find("a.method-source")
	require.Equal(t, 1, source.Length())
	assert.Equal(t, "source", source.Text())
	href, _ := source.Attr("href")
	assert.Equal(t, "#l42", href)
	assert.Equal(t, 0, doc.Find("a.permalink").Length())
}

func TestMethodDetailWithoutHeadingIsDefect(t *testing.T) {
	doc := parse(t, `<div class="method-detail"><p>no heading here</p></div>`)

	err := CleanHTML{}.Apply(doc)

	var filterErr *domain.FilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "rdoc/clean_html", filterErr.Filter)
}

func TestHeadingRemap(t *testing.T) {
	doc := apply(t, `<h1>Page</h1><h1>Second</h1>`+
		`<div class="method-detail"><h3>detail</h3></div>`+
		`<h3>elsewhere</h3><h6>deep</h6>`)

	assert.Equal(t, 1, doc.Find("h1").Length(), "only the first h1 survives")
	assert.Equal(t, "Second", doc.Find("h2").Text())
	assert.Equal(t, 1, doc.Find("div.method-detail h5").Length(), "detail h3 drops to h5")
	assert.Equal(t, "elsewhere", doc.Find("body > h3").Text(), "h3 outside details is untouched")
	assert.Equal(t, "deep", doc.Find("h4").Text(), "h6 rises to h4")
	assert.Equal(t, 0, doc.Find("h6").Length())
}

func TestDecorationStrippedAndContainersUnwrapped(t *testing.T) {
	doc := apply(t, `<ul class="breadcrumb"><li>Home</li></ul>`+
		`<div class="section"><div class="content"><p>body</p></div></div>`+
		`<span class="anchor-icon">#</span>`)

	assert.Equal(t, 0, doc.Find("ul.breadcrumb").Length())
	assert.Equal(t, 0, doc.Find("span.anchor-icon").Length())
	assert.Equal(t, 0, doc.Find("div.section, div.content").Length())
	assert.Equal(t, "body", doc.Find("body > p").Text())
}

func TestVarBecomesCode(t *testing.T) {
	doc := apply(t, `<p>pass <var>obj</var> in</p>`)

	assert.Equal(t, 0, doc.Find("var").Length())
	assert.Equal(t, "obj", doc.Find("p code").Text())
}

func TestSignatureBecomesPre(t *testing.T) {
	doc := apply(t, `<div class="method-signature">  each { |item| ... } &rarr; self  </div>`)

	pre := doc.Find("pre.method-signature")
	require.Equal(t, 1, pre.Length())
	lang, _ := pre.Attr("data-language")
	assert.Equal(t, "ruby", lang)
	assert.Equal(t, strings.TrimSpace(pre.Text()), pre.Text())
}

func TestNestedCodeIsUnwrappedThenNormalized(t *testing.T) {
	doc := apply(t, "<p><code>a\n  <code>b\n c</code></code></p>")

	code := doc.Find("p code")
	require.Equal(t, 1, code.Length(), "nested code is flattened")
	assert.Equal(t, "a b c", code.Text(), "whitespace collapses after the unwrap")
}

// Running normalization before the unwrap leaves the outer element
// untouched, so the raw whitespace leaks through. This pins down why
// the two steps run in the order they do.
func TestNormalizeBeforeUnwrapLeavesRawWhitespace(t *testing.T) {
	doc := parse(t, "<p><code>a\n  <code>b\n c</code></code></p>")

	filter.NormalizeText(doc.Find("code"))
	filter.Unwrap(doc.Find("code code"))

	assert.Equal(t, "a\n  b c", doc.Find("p code").Text())
}

func TestCleanHTMLName(t *testing.T) {
	assert.Equal(t, "rdoc/clean_html", CleanHTML{}.Name())
}
