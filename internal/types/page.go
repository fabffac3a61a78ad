package types

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// RenderedPage is the result of rendering one URL. It carries the final
// address, the rendered markup, and the visible body text the extractor
// mines for prices.
type RenderedPage struct {
	// URL is the page address after any redirects.
	URL string

	// HTML is the fully rendered markup.
	HTML string

	// BodyText is the visible text of the document body.
	BodyText string

	// FetchDuration is how long the render took.
	FetchDuration time.Duration

	// FetchedAt is when the page was rendered.
	FetchedAt time.Time

	// Doc is a parsed goquery document (lazily loaded).
	Doc *goquery.Document
}

// Document returns a parsed goquery document, lazily initializing it.
func (p *RenderedPage) Document() (*goquery.Document, error) {
	if p.Doc != nil {
		return p.Doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, err
	}
	p.Doc = doc
	return doc, nil
}

// Links returns the href of every anchor on the page, in document order.
// Anchors without an href attribute are skipped.
func (p *RenderedPage) Links() []string {
	doc, err := p.Document()
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// Heading returns the trimmed text of the first h1 on the page, or ""
// when the page carries none.
func (p *RenderedPage) Heading() string {
	root, err := htmlquery.Parse(strings.NewReader(p.HTML))
	if err != nil {
		return ""
	}
	node, err := htmlquery.Query(root, "//h1")
	if err != nil || node == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(node))
}

// Text returns BodyText when the renderer supplied it, otherwise the
// text content of the parsed document.
func (p *RenderedPage) Text() string {
	if p.BodyText != "" {
		return p.BodyText
	}
	doc, err := p.Document()
	if err != nil {
		return ""
	}
	return doc.Text()
}

// TextFromHTML extracts visible text from raw markup. Used by the HTTP
// fetcher, which has no rendered DOM to read innerText from.
func TextFromHTML(markup string) string {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(b.String()), " ")
}
