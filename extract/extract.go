// Package extract implements the streaming extraction state machines that
// turn a token sequence into a Listing or a Chapter without building a DOM.
//
// Both machines are fail-open: markup that does not match the expected
// shape never produces an error, it only leaves fields empty.
package extract

import "github.com/fwojciec/webnovel"

// Sink consumes tokens one at a time in document order.
type Sink interface {
	ProcessToken(tok webnovel.Token)
}

// Run feeds every token from src into sink until the end of input.
func Run(src webnovel.TokenSource, sink Sink) error {
	for {
		tok, err := src.Next()
		if err != nil {
			return err
		}
		if tok.Type == webnovel.EndOfInputToken {
			return nil
		}
		sink.ProcessToken(tok)
	}
}

// ExtractListing runs a ListingSink over src.
func ExtractListing(src webnovel.TokenSource) (*webnovel.Listing, error) {
	var sink ListingSink
	if err := Run(src, &sink); err != nil {
		return nil, err
	}
	return sink.Listing(), nil
}

// ExtractChapter runs a ChapterSink over src.
func ExtractChapter(src webnovel.TokenSource) (*webnovel.Chapter, error) {
	var sink ChapterSink
	if err := Run(src, &sink); err != nil {
		return nil, err
	}
	return sink.Chapter(), nil
}
