package extract_test

import "github.com/fwojciec/webnovel"

// sliceSource replays a fixed token sequence.
type sliceSource struct {
	tokens []webnovel.Token
	pos    int
}

func source(tokens ...webnovel.Token) *sliceSource {
	return &sliceSource{tokens: tokens}
}

func (s *sliceSource) Next() (webnovel.Token, error) {
	if s.pos >= len(s.tokens) {
		return webnovel.Token{Type: webnovel.EndOfInputToken}, nil
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

func open(name string, attrs ...string) webnovel.Token {
	tok := webnovel.Token{Type: webnovel.StartTagToken, Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		tok.Attrs = append(tok.Attrs, webnovel.Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return tok
}

func closeTag(name string) webnovel.Token {
	return webnovel.Token{Type: webnovel.EndTagToken, Name: name}
}

func text(s string) webnovel.Token {
	return webnovel.Token{Type: webnovel.TextToken, Text: s}
}
