package webnovel

import "context"

// Assembler collects chapters into a single packaged document.
// Implementations write exactly one artifact on Finish and nothing on Abort.
type Assembler interface {
	// Start begins a document for the work described by listing.
	Start(listing *Listing) error

	// AddChapter appends a chapter. Returns EASSEMBLY if the chapter
	// content is rejected.
	AddChapter(ctx context.Context, ch *Chapter) error

	// Finish serializes the document and returns the path it was written to.
	Finish(ctx context.Context) (string, error)

	// Abort discards the document. It is safe to call after Finish.
	Abort() error
}
