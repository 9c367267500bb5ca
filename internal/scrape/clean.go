package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelectors never carry page content.
var noiseSelectors = []string{"script", "style", "nav", "footer", "header", "aside"}

// Clean returns the visible text of an HTML document, one trimmed non-blank line
// per output line.
func Clean(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var texts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			texts = append(texts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	lines := strings.Split(strings.Join(texts, " "), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// CleanHTML strips the same noise as Clean but keeps the markup, for the
// Markdown renderer.
func CleanHTML(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Html()
	}
	return goquery.OuterHtml(body.First())
}
