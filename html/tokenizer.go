// Package html provides a webnovel.Tokenizer backed by the
// golang.org/x/net/html lexer.
package html

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/fwojciec/webnovel"
	"golang.org/x/net/html"
)

// Ensure Tokenizer implements webnovel.Tokenizer at compile time.
var _ webnovel.Tokenizer = (*Tokenizer)(nil)

// Tokenizer lexes HTML into webnovel tokens without building a tree.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize buffers the whole input, checks that it is valid UTF-8 and
// returns a source over its tokens.
func (t *Tokenizer) Tokenize(r io.Reader) (webnovel.TokenSource, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, webnovel.Errorf(webnovel.ETRANSPORT, "read input: %v", err)
	}
	if !utf8.Valid(buf.Bytes()) {
		return nil, webnovel.Errorf(webnovel.EDECODE, "input is not valid UTF-8")
	}
	return &source{z: html.NewTokenizer(&buf)}, nil
}

// source adapts an html.Tokenizer to webnovel.TokenSource.
type source struct {
	z    *html.Tokenizer
	done bool
}

func (s *source) Next() (webnovel.Token, error) {
	for !s.done {
		switch s.z.Next() {
		case html.ErrorToken:
			if err := s.z.Err(); !errors.Is(err, io.EOF) {
				return webnovel.Token{}, webnovel.Errorf(webnovel.EDECODE, "tokenize: %v", err)
			}
			s.done = true
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := s.z.Token()
			return webnovel.Token{
				Type:  webnovel.StartTagToken,
				Name:  tok.Data,
				Attrs: attrs(tok.Attr),
			}, nil
		case html.EndTagToken:
			tok := s.z.Token()
			return webnovel.Token{Type: webnovel.EndTagToken, Name: tok.Data}, nil
		case html.TextToken:
			return webnovel.Token{Type: webnovel.TextToken, Text: s.z.Token().Data}, nil
		}
		// Comments and doctypes carry nothing the extractors use.
	}
	return webnovel.Token{Type: webnovel.EndOfInputToken}, nil
}

func attrs(in []html.Attribute) []webnovel.Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]webnovel.Attr, len(in))
	for i, a := range in {
		out[i] = webnovel.Attr{Name: a.Key, Value: a.Val}
	}
	return out
}
