package webnovel

import (
	"fmt"
	"strings"
)

// Listing holds the fields extracted from a work's listing page.
type Listing struct {
	// URL is the listing page address.
	URL string

	// Author and Title hold the last text run seen in their regions.
	Author string
	Title  string

	// Links are absolute chapter URLs in document order. Duplicates are kept.
	Links []string
}

// Chapter holds the fields extracted from a single chapter page.
type Chapter struct {
	// Index is the zero-based position of the chapter in the listing.
	Index int
	URL   string

	// Title is the concatenation of every text run in the title region.
	Title string

	// Body is escaped text with newlines rewritten to LineBreak and
	// em-spaces removed.
	Body string
}

// Filename returns the name of the chapter's document inside a package.
func (c *Chapter) Filename() string {
	return fmt.Sprintf("%d.xhtml", c.Index)
}

// LineBreak is the markup that replaces newlines in chapter bodies.
const LineBreak = "<br />"

// XHTML wraps the chapter body in a minimal well-formed document shell.
func (c *Chapter) XHTML() string {
	return fmt.Sprintf(xhtmlShell, c.Body)
}

const xhtmlShell = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
%s
</body>
</html>`

// OutputFilename returns the artifact name for a work title with the given
// extension. Path separators are replaced so the file always lands in the
// output directory.
func OutputFilename(title, ext string) string {
	name := strings.TrimSpace(title)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "untitled"
	}
	return name + ext
}
