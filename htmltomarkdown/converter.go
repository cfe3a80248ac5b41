// Package htmltomarkdown provides a webnovel.Converter backed by
// github.com/JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/fwojciec/webnovel"
)

// Ensure Converter implements webnovel.Converter at compile time.
var _ webnovel.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert chapter markup to Markdown.
// Line breaks in a chapter body become paragraph breaks.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", webnovel.Errorf(webnovel.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(paragraphs(html))
	if err != nil {
		return "", err
	}

	return result, nil
}

// paragraphs turns every non-blank line of a chapter body into its own
// paragraph. Runs of line breaks only space paragraphs apart on the source
// page, so they collapse into a single paragraph break.
func paragraphs(body string) string {
	if !strings.Contains(body, webnovel.LineBreak) {
		return body
	}

	var b strings.Builder
	for _, line := range strings.Split(body, webnovel.LineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	return b.String()
}
