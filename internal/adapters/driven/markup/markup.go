// Package markup reads and rewrites the HTML fragments stored in manuscript
// elements using golang.org/x/net/html.
package markup

import (
	"fmt"
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// Ensure HTML implements the interface.
var _ driven.Markup = (*HTML)(nil)

// HTML implements driven.Markup. It is stateless and safe for concurrent use.
type HTML struct{}

// New creates a new HTML markup adapter.
func New() *HTML {
	return &HTML{}
}

// bodyContext is the context element fragments are parsed in.
var bodyContext = &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}

func parse(fragment string) ([]*xhtml.Node, error) {
	nodes, err := xhtml.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return nodes, nil
}

// Text returns the concatenated text nodes of the fragment, like the DOM
// textContent property. Plain text without markup is returned unescaped.
func (h *HTML) Text(fragment string) (string, error) {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment, nil
	}
	nodes, err := parse(fragment)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range nodes {
		collectText(&b, n)
	}
	return b.String(), nil
}

func collectText(b *strings.Builder, n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		b.WriteString(n.Data)
	case xhtml.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

// ReplaceText replaces the children of the first top-level element with a
// single text node. Attributes and any sibling nodes are kept.
func (h *HTML) ReplaceText(fragment, text string) (string, error) {
	nodes, err := parse(fragment)
	if err != nil {
		return "", err
	}

	var target *xhtml.Node
	for _, n := range nodes {
		if n.Type == xhtml.ElementNode {
			target = n
			break
		}
	}
	if target == nil {
		return html.EscapeString(text), nil
	}

	for c := target.FirstChild; c != nil; {
		next := c.NextSibling
		target.RemoveChild(c)
		c = next
	}
	target.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: text})

	var b strings.Builder
	for _, n := range nodes {
		if err := xhtml.Render(&b, n); err != nil {
			return "", fmt.Errorf("rendering fragment: %w", err)
		}
	}
	return b.String(), nil
}
