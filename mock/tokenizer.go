package mock

import (
	"io"

	"github.com/fwojciec/webnovel"
)

var _ webnovel.Tokenizer = (*Tokenizer)(nil)

// Tokenizer is a mock implementation of webnovel.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(r io.Reader) (webnovel.TokenSource, error)
}

func (t *Tokenizer) Tokenize(r io.Reader) (webnovel.TokenSource, error) {
	return t.TokenizeFn(r)
}

var _ webnovel.TokenSource = (*TokenSource)(nil)

// TokenSource is a mock implementation of webnovel.TokenSource.
type TokenSource struct {
	NextFn func() (webnovel.Token, error)
}

func (s *TokenSource) Next() (webnovel.Token, error) {
	return s.NextFn()
}
