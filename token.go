package webnovel

import "io"

// TokenType identifies the kind of a lexical HTML token.
type TokenType int

const (
	// EndOfInputToken marks the end of the token sequence.
	EndOfInputToken TokenType = iota
	// StartTagToken is an opening tag with its attributes.
	StartTagToken
	// EndTagToken is a closing tag.
	EndTagToken
	// TextToken is a run of character data.
	TextToken
)

// String returns a human readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case TextToken:
		return "Text"
	default:
		return "EndOfInput"
	}
}

// Attr is a single name/value attribute of a start tag.
type Attr struct {
	Name  string
	Value string
}

// Token is one lexical unit of an HTML document.
// Name is set for tags, Attrs only for start tags and Text only for text runs.
type Token struct {
	Type  TokenType
	Name  string
	Attrs []Attr
	Text  string
}

// Attr returns the value of the first attribute with the given name.
func (t Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the token carries an attribute with exactly
// the given name and value.
func (t Token) HasAttr(name, value string) bool {
	for _, a := range t.Attrs {
		if a.Name == name && a.Value == value {
			return true
		}
	}
	return false
}

// TokenSource yields tokens in document order. Once the input is exhausted
// Next returns a token of type EndOfInputToken.
type TokenSource interface {
	Next() (Token, error)
}

// Tokenizer converts a byte stream into a TokenSource.
type Tokenizer interface {
	// Tokenize consumes r and returns the tokens it contains.
	// Returns EDECODE if the bytes cannot be interpreted as text.
	Tokenize(r io.Reader) (TokenSource, error)
}
