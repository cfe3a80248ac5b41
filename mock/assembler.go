package mock

import (
	"context"

	"github.com/fwojciec/webnovel"
)

var _ webnovel.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of webnovel.Assembler.
type Assembler struct {
	StartFn      func(listing *webnovel.Listing) error
	AddChapterFn func(ctx context.Context, ch *webnovel.Chapter) error
	FinishFn     func(ctx context.Context) (string, error)
	AbortFn      func() error
}

func (a *Assembler) Start(listing *webnovel.Listing) error {
	return a.StartFn(listing)
}

func (a *Assembler) AddChapter(ctx context.Context, ch *webnovel.Chapter) error {
	return a.AddChapterFn(ctx, ch)
}

func (a *Assembler) Finish(ctx context.Context) (string, error) {
	return a.FinishFn(ctx)
}

func (a *Assembler) Abort() error {
	return a.AbortFn()
}
