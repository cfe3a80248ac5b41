// Package epub provides a webnovel.Assembler that writes EPUB 3 packages.
//
// A package contains an inline table of contents (nav.xhtml) as the first
// spine item, an NCX for EPUB 2 readers, and one XHTML document per chapter.
// XML documents are built with github.com/beevik/etree.
package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/webnovel"
	"github.com/fwojciec/webnovel/fs"
	"github.com/google/uuid"
)

// Extension is the file extension of written packages.
const Extension = ".epub"

const (
	mediaTypeEPUB  = "application/epub+zip"
	mediaTypeXHTML = "application/xhtml+xml"
	mediaTypeNCX   = "application/x-dtbncx+xml"
	contentDir     = "OEBPS"
)

// Ensure Assembler implements webnovel.Assembler at compile time.
var _ webnovel.Assembler = (*Assembler)(nil)

// Assembler buffers chapters in memory and writes the package on Finish.
type Assembler struct {
	dir      string
	language string
	now      func() time.Time

	listing  *webnovel.Listing
	id       string
	chapters []chapter
	file     *fs.AtomicFile
}

type chapter struct {
	filename string
	title    string
	xhtml    string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLanguage sets the dc:language of the package. Defaults to "en".
func WithLanguage(lang string) Option {
	return func(a *Assembler) {
		a.language = lang
	}
}

// WithClock sets the function used for the dcterms:modified timestamp.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates an Assembler writing packages into dir.
func NewAssembler(dir string, opts ...Option) *Assembler {
	a := &Assembler{
		dir:      dir,
		language: "en",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins a new package for the work.
func (a *Assembler) Start(listing *webnovel.Listing) error {
	a.listing = listing
	a.id = "urn:uuid:" + uuid.NewString()
	a.chapters = nil
	return nil
}

// AddChapter adds a chapter document. Returns EASSEMBLY if the chapter
// is not well-formed XHTML.
func (a *Assembler) AddChapter(ctx context.Context, ch *webnovel.Chapter) error {
	if a.listing == nil {
		return webnovel.Errorf(webnovel.EINVALID, "package not started")
	}

	xhtml := ch.XHTML()
	if err := etree.NewDocument().ReadFromString(xhtml); err != nil {
		return webnovel.Errorf(webnovel.EASSEMBLY, "chapter %d is not well-formed XHTML: %v", ch.Index, err)
	}

	a.chapters = append(a.chapters, chapter{
		filename: ch.Filename(),
		title:    ch.Title,
		xhtml:    xhtml,
	})
	return nil
}

// Finish writes the package to <dir>/<title>.epub and returns its path.
func (a *Assembler) Finish(ctx context.Context) (string, error) {
	if a.listing == nil {
		return "", webnovel.Errorf(webnovel.EINVALID, "package not started")
	}

	f, err := fs.CreateAtomic(a.dir, webnovel.OutputFilename(a.listing.Title, Extension))
	if err != nil {
		return "", err
	}
	a.file = f

	if err := a.write(f); err != nil {
		_ = f.Abort()
		return "", webnovel.Errorf(webnovel.EASSEMBLY, "write package: %v", err)
	}
	return f.Commit()
}

// Abort discards buffered chapters and any temporary file.
func (a *Assembler) Abort() error {
	a.chapters = nil
	if a.file != nil {
		return a.file.Abort()
	}
	return nil
}

func (a *Assembler) write(w io.Writer) error {
	zw := zip.NewWriter(w)

	// The mimetype entry must come first and be stored uncompressed.
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mw, mediaTypeEPUB); err != nil {
		return err
	}

	docs := []struct {
		name string
		doc  *etree.Document
	}{
		{"META-INF/container.xml", containerDocument()},
		{contentDir + "/content.opf", a.packageDocument()},
		{contentDir + "/nav.xhtml", a.navDocument()},
		{contentDir + "/toc.ncx", a.ncxDocument()},
	}
	for _, d := range docs {
		d.doc.Indent(2)
		fw, err := zw.Create(d.name)
		if err != nil {
			return err
		}
		if _, err := d.doc.WriteTo(fw); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	for _, ch := range a.chapters {
		fw, err := zw.Create(contentDir + "/" + ch.filename)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(fw, ch.xhtml); err != nil {
			return err
		}
	}

	return zw.Close()
}
