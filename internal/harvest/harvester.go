// Package harvest extracts crawlable URLs from an HTML sitemap page.
package harvest

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrInvalidRoot indicates the root URL could not be parsed.
var ErrInvalidRoot = errors.New("invalid root URL")

// Harvester extracts same-domain page links from HTML.
type Harvester struct {
	root       *url.URL
	skipSuffix *regexp.Regexp
}

// NewHarvester creates a harvester rooted at rootURL. skipSuffixPattern is an
// optional regex matched against hrefs to drop binary assets; an empty
// pattern skips nothing.
func NewHarvester(rootURL, skipSuffixPattern string) (*Harvester, error) {
	root, err := url.Parse(rootURL)
	if err != nil || root.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, rootURL)
	}

	var skip *regexp.Regexp

	if skipSuffixPattern != "" {
		skip, err = regexp.Compile("(?i)" + skipSuffixPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid skip suffix pattern: %w", err)
		}
	}

	return &Harvester{root: root, skipSuffix: skip}, nil
}

// Extract returns the sorted, deduplicated set of same-domain page URLs
// found in the sitemap HTML. Relative hrefs are resolved against the root.
func (h *Harvester) Extract(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")

		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		if h.skipSuffix != nil && h.skipSuffix.MatchString(href) {
			return
		}

		resolved, err := h.root.Parse(href)
		if err != nil {
			return
		}

		if !sameDomain(h.root, resolved) {
			return
		}

		resolved.Fragment = ""
		seen[resolved.String()] = true
	})

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}

	sort.Strings(urls)

	return urls, nil
}

// sameDomain compares hosts ignoring a leading www prefix and scheme.
func sameDomain(root, candidate *url.URL) bool {
	if candidate.Scheme != "http" && candidate.Scheme != "https" {
		return false
	}

	return stripWWW(root.Hostname()) == stripWWW(candidate.Hostname())
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// WriteURLFile writes one URL per line.
func WriteURLFile(path string, urls []string) error {
	data := strings.Join(urls, "\n")
	if len(urls) > 0 {
		data += "\n"
	}

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write URL file: %w", err)
	}

	return nil
}

// ReadURLFile reads a URL list file, skipping blank lines.
func ReadURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}

	var urls []string

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}

	return urls, nil
}
