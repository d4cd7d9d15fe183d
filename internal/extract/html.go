package extract

import (
	"fmt"
	"strings"

	"github.com/ppiankov/politikcred/internal/model"
	"golang.org/x/net/html"
)

// ExtractPromisesFromHTML extracts promises from the visible text of an
// HTML page (speech transcripts, programme pages, press releases).
func (c *Classifier) ExtractPromisesFromHTML(htmlContent string, source model.SourceReference) ([]model.PromiseCandidate, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return c.ExtractPromises(VisibleText(doc), source), nil
}

// VisibleText extracts text nodes, skipping scripts, styles and navigation
func VisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
