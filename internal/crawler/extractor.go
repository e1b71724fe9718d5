package crawler

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"pagesync/internal/config"
)

// Extractor reduces raw page HTML to a title and the main content as markdown.
type Extractor struct {
	converter        *md.Converter
	contentSelectors []string
	stripSelectors   []string
}

// NewExtractor creates an extractor. The domain is used to resolve relative
// asset and link URLs in the converted markdown.
func NewExtractor(domain string, extract *config.ExtractConfig) *Extractor {
	converter := md.NewConverter(domain, true, &md.Options{
		HeadingStyle: "atx",
	})

	return &Extractor{
		converter:        converter,
		contentSelectors: extract.ContentSelectors,
		stripSelectors:   extract.StripSelectors,
	}
}

// Extract returns the page title and the main content converted to markdown.
func (e *Extractor) Extract(html string) (title, markdown string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title = strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")

	for _, sel := range e.stripSelectors {
		doc.Find(sel).Remove()
	}

	// Blob-backed videos cannot be fetched; leave a marker instead.
	doc.Find("video").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); strings.HasPrefix(src, "blob:") {
			s.ReplaceWithHtml("<p>[Embedded video: not directly extractable]</p>")
		}
	})

	// Hosted video embeds become plain markdown links.
	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.Contains(src, "vimeo.com") || strings.Contains(src, "youtube.com") {
			s.ReplaceWithHtml(fmt.Sprintf(`<p><a href="%s">Watch video</a></p>`, src))
		}
	})

	content := e.findContent(doc)
	markdown = e.converter.Convert(content)

	return title, markdown, nil
}

// findContent returns the first non-empty content selection, falling back to
// the whole body.
func (e *Extractor) findContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}

	return doc.Find("body")
}
