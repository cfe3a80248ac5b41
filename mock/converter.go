package mock

import "github.com/fwojciec/webnovel"

var _ webnovel.Converter = (*Converter)(nil)

// Converter is a mock implementation of webnovel.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
