// Package collation orders display strings with the Unicode Collation
// Algorithm via golang.org/x/text/collate.
package collation

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// Ensure Collator implements the interface.
var _ driven.Collator = (*Collator)(nil)

// Collator implements driven.Collator. A collate.Collator keeps scratch
// buffers, so comparisons are serialized.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// New creates a collator that ignores case, punctuation and whitespace.
// Accents stay significant.
func New() *Collator {
	return &Collator{c: collate.New(language.Und, collate.IgnoreCase)}
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	a, b = stripIgnorable(a), stripIgnorable(b)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

func stripIgnorable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
