// Package statistics counts words and characters of plain text using the
// Unicode segmentation rules of UAX #29.
package statistics

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// Ensure Counter implements the interface.
var _ driven.Statistics = (*Counter)(nil)

// Counter implements driven.Statistics. It is stateless and safe for
// concurrent use.
type Counter struct{}

// New creates a new counter.
func New() *Counter {
	return &Counter{}
}

// CountWords returns the number of word segments that contain a letter or
// a digit. Whitespace and punctuation segments are not words.
func (c *Counter) CountWords(text string) int {
	n := 0
	state := -1
	var word string
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if isWord(word) {
			n++
		}
	}
	return n
}

// CountCharacters returns the number of grapheme clusters in text.
func (c *Counter) CountCharacters(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
