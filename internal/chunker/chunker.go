// Package chunker splits markdown content into token-bounded chunks for
// embedding.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk sizes in tokens. Chunks are cut greedily by paragraph: a chunk
// closes once it reaches the target, and a paragraph that would push it
// past the hard cap closes it early.
const (
	DefaultTargetTokens = 400
	DefaultMaxTokens    = 500

	encoding = "cl100k_base"
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// Splitter splits text into chunks of bounded token counts.
type Splitter struct {
	enc          *tiktoken.Tiktoken
	targetTokens int
	maxTokens    int
}

// NewSplitter creates a splitter using the cl100k_base encoding, the one
// used by the text-embedding-3 model family. Non-positive sizes fall back
// to the defaults.
func NewSplitter(targetTokens, maxTokens int) (*Splitter, error) {
	if targetTokens <= 0 {
		targetTokens = DefaultTargetTokens
	}

	if maxTokens < targetTokens {
		maxTokens = DefaultMaxTokens
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encoding, err)
	}

	return &Splitter{
		enc:          enc,
		targetTokens: targetTokens,
		maxTokens:    maxTokens,
	}, nil
}

// CountTokens returns the token count of text.
func (s *Splitter) CountTokens(text string) int {
	return len(s.enc.Encode(text, nil, nil))
}

// Split partitions text into chunks of roughly the target token count,
// keeping paragraphs intact. Empty input yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var paragraphs []string

	for _, p := range paragraphSplit.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var (
		chunks       []string
		current      []string
		currentCount int
	)

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentCount = 0
		}
	}

	for _, paragraph := range paragraphs {
		count := s.CountTokens(paragraph)

		if currentCount+count > s.maxTokens {
			flush()
		}

		current = append(current, paragraph)
		currentCount += count

		if currentCount >= s.targetTokens {
			flush()
		}
	}

	flush()

	return chunks
}
