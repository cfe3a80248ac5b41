package extract

import (
	"strings"

	"github.com/fwojciec/webnovel"
	"golang.org/x/net/html"
)

// chapterState is the set of open chapter regions.
type chapterState int

const (
	chapterIdle chapterState = iota
	chapterInName
	chapterInContent
	// chapterBoth means both markers were seen. Text is dropped and close
	// tags are ignored, so the machine stays here for the rest of the page.
	chapterBoth
)

func (s chapterState) enterName() chapterState {
	switch s {
	case chapterIdle:
		return chapterInName
	case chapterInContent:
		return chapterBoth
	}
	return s
}

func (s chapterState) enterContent() chapterState {
	switch s {
	case chapterIdle:
		return chapterInContent
	case chapterInName:
		return chapterBoth
	}
	return s
}

// close ends the open region if exactly one is open.
func (s chapterState) close() chapterState {
	switch s {
	case chapterInName, chapterInContent:
		return chapterIdle
	}
	return s
}

// bodyReplacer rewrites newlines as line breaks and drops em-spaces. It runs
// after escaping, so every <br /> in a body is a real line break.
var bodyReplacer = strings.NewReplacer("\n", webnovel.LineBreak, "\u2003", "")

// ChapterSink extracts a chapter title and body from a chapter page.
// Body text is escaped, so the body is markup ready to embed.
//
// Any start tag with class="name" opens the title region and any start tag
// with class="content" opens the body region. Any end tag closes whichever
// single region is open, whatever its name.
type ChapterSink struct {
	state chapterState
	title strings.Builder
	body  strings.Builder
}

var _ Sink = (*ChapterSink)(nil)

// ProcessToken advances the state machine by one token.
func (s *ChapterSink) ProcessToken(tok webnovel.Token) {
	switch tok.Type {
	case webnovel.StartTagToken:
		for _, a := range tok.Attrs {
			switch {
			case a.Name == "class" && a.Value == "name":
				s.state = s.state.enterName()
			case a.Name == "class" && a.Value == "content":
				s.state = s.state.enterContent()
			}
		}
	case webnovel.EndTagToken:
		s.state = s.state.close()
	case webnovel.TextToken:
		switch s.state {
		case chapterInName:
			s.title.WriteString(tok.Text)
		case chapterInContent:
			if tok.Text == "" {
				return
			}
			s.body.WriteString(bodyReplacer.Replace(html.EscapeString(tok.Text)))
		}
	}
}

// Chapter returns the extraction result.
func (s *ChapterSink) Chapter() *webnovel.Chapter {
	return &webnovel.Chapter{
		Title: s.title.String(),
		Body:  s.body.String(),
	}
}
