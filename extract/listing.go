package extract

import (
	"github.com/fwojciec/webnovel"
)

// LinkPrefix is prepended to every chapter href. Listing pages use
// protocol-relative links.
const LinkPrefix = "https:"

// listingFlags records which listing markers are currently set.
// Overlapping markers are reachable on unexpected markup, so the raw bits are
// kept and every dispatch goes through a listingRegion projection.
type listingFlags uint8

const (
	// authorTag is set by <span class="author"> and cleared only when the
	// author region closes.
	authorTag listingFlags = 1 << iota
	author
	title
	links
)

func (f listingFlags) has(bit listingFlags) bool { return f&bit != 0 }

// listingRegion is the region a token is attributed to.
type listingRegion int

const (
	regionIdle listingRegion = iota
	regionAuthor
	regionTitle
	regionLinks
)

// textRegion decides where character data goes. The link-list marker does
// not take part: author text is captured even inside the chapter list.
func (f listingFlags) textRegion() listingRegion {
	switch {
	case f.has(author) && !f.has(title):
		return regionAuthor
	case f.has(title) && !f.has(author):
		return regionTitle
	}
	return regionIdle
}

// closeRegion returns the single open region an end tag may close.
// Any overlap resolves to regionIdle and the close is ignored.
func (f listingFlags) closeRegion() listingRegion {
	switch f & (author | title | links) {
	case author:
		return regionAuthor
	case title:
		return regionTitle
	case links:
		return regionLinks
	}
	return regionIdle
}

// anchorRegion decides what an <a> start tag means. An author anchor only
// counts before the chapter list opens, and an anchor seen while both
// markers are set is neither the author nor a chapter.
func (f listingFlags) anchorRegion() listingRegion {
	switch {
	case f.has(authorTag) && !f.has(links):
		return regionAuthor
	case f.has(links) && !f.has(authorTag):
		return regionLinks
	}
	return regionIdle
}

// ListingSink extracts author, title and chapter links from a listing page.
//
// Recognized markup:
//
//	<span class="author"><a>Author</a></span>
//	<span class="title">Title</span>
//	<ul id="chapter-list"><li><a href="//host/1">...</a></li></ul>
//
// Region exits do not track an element stack. A nested element of any kind
// inside the author or title region ends that region on its close tag, and
// the chapter list only ends on </ul>.
type ListingSink struct {
	flags  listingFlags
	author string
	title  string
	links  []string
}

var _ Sink = (*ListingSink)(nil)

// ProcessToken advances the state machine by one token.
func (s *ListingSink) ProcessToken(tok webnovel.Token) {
	switch tok.Type {
	case webnovel.StartTagToken:
		s.startTag(tok)
	case webnovel.EndTagToken:
		s.endTag(tok)
	case webnovel.TextToken:
		switch s.flags.textRegion() {
		case regionAuthor:
			s.author = tok.Text
		case regionTitle:
			s.title = tok.Text
		}
	}
}

func (s *ListingSink) startTag(tok webnovel.Token) {
	switch tok.Name {
	case "span":
		for _, a := range tok.Attrs {
			switch {
			case a.Name == "class" && a.Value == "author":
				s.flags |= authorTag
			case a.Name == "class" && a.Value == "title":
				s.flags |= title
			}
		}
	case "a":
		switch s.flags.anchorRegion() {
		case regionAuthor:
			s.flags |= author
		case regionLinks:
			for _, a := range tok.Attrs {
				if a.Name == "href" {
					s.links = append(s.links, LinkPrefix+a.Value)
				}
			}
		}
	case "ul":
		if tok.HasAttr("id", "chapter-list") {
			s.flags |= links
		}
	}
}

func (s *ListingSink) endTag(tok webnovel.Token) {
	switch s.flags.closeRegion() {
	case regionAuthor:
		s.flags &^= author | authorTag
	case regionTitle:
		s.flags &^= title
	case regionLinks:
		if tok.Name == "ul" {
			s.flags &^= links
		}
	}
}

// Listing returns the extraction result.
func (s *ListingSink) Listing() *webnovel.Listing {
	links := make([]string, len(s.links))
	copy(links, s.links)
	return &webnovel.Listing{
		Author: s.author,
		Title:  s.title,
		Links:  links,
	}
}
