package driven

// Statistics counts words and characters of plain text.
type Statistics interface {
	// CountWords returns the number of words in text.
	CountWords(text string) int

	// CountCharacters returns the number of user-perceived characters in text.
	CountCharacters(text string) int
}

// Markup reads and rewrites the HTML fragments stored in element contents.
type Markup interface {
	// Text returns the text content of an HTML fragment.
	Text(fragment string) (string, error)

	// ReplaceText replaces the text of the fragment's outermost element,
	// keeping the element itself. A fragment without an element is
	// replaced by the escaped text.
	ReplaceText(fragment, text string) (string, error)
}

// Collator compares strings for display ordering.
type Collator interface {
	// Compare returns -1, 0 or 1. Case and punctuation are ignored.
	Compare(a, b string) int
}
