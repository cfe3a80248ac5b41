package fs

import (
	"context"
	"strings"

	"github.com/fwojciec/webnovel"
	"gopkg.in/yaml.v3"
)

// Ensure MarkdownAssembler implements webnovel.Assembler at compile time.
var _ webnovel.Assembler = (*MarkdownAssembler)(nil)

// MarkdownAssembler writes a work as a single markdown file with YAML
// frontmatter and one section per chapter.
type MarkdownAssembler struct {
	dir       string
	converter webnovel.Converter

	listing  *webnovel.Listing
	sections []string
	file     *AtomicFile
}

// NewMarkdownAssembler creates a MarkdownAssembler writing into dir.
func NewMarkdownAssembler(dir string, converter webnovel.Converter) *MarkdownAssembler {
	return &MarkdownAssembler{dir: dir, converter: converter}
}

// Start begins a new document.
func (a *MarkdownAssembler) Start(listing *webnovel.Listing) error {
	a.listing = listing
	a.sections = nil
	return nil
}

// AddChapter converts the chapter body and keeps it for Finish.
func (a *MarkdownAssembler) AddChapter(ctx context.Context, ch *webnovel.Chapter) error {
	if a.listing == nil {
		return webnovel.Errorf(webnovel.EINVALID, "document not started")
	}

	var content string
	if strings.TrimSpace(ch.Body) != "" {
		md, err := a.converter.Convert(ch.Body)
		if err != nil {
			return webnovel.Errorf(webnovel.EASSEMBLY, "convert chapter %d: %v", ch.Index, err)
		}
		content = md
	}

	a.sections = append(a.sections, FormatSection(ch.Title, content))
	return nil
}

// Finish writes the markdown file and returns its path.
func (a *MarkdownAssembler) Finish(ctx context.Context) (string, error) {
	if a.listing == nil {
		return "", webnovel.Errorf(webnovel.EINVALID, "document not started")
	}

	f, err := CreateAtomic(a.dir, webnovel.OutputFilename(a.listing.Title, ".md"))
	if err != nil {
		return "", err
	}
	a.file = f

	front, err := FormatFrontmatter(a.listing)
	if err != nil {
		_ = f.Abort()
		return "", webnovel.Errorf(webnovel.EASSEMBLY, "frontmatter: %v", err)
	}

	var b strings.Builder
	b.WriteString(front)
	for _, s := range a.sections {
		b.WriteString(s)
	}
	if _, err := f.Write([]byte(b.String())); err != nil {
		_ = f.Abort()
		return "", err
	}
	return f.Commit()
}

// Abort discards buffered chapters and any temporary file.
func (a *MarkdownAssembler) Abort() error {
	a.sections = nil
	if a.file != nil {
		return a.file.Abort()
	}
	return nil
}

// Frontmatter is the YAML metadata block at the top of a markdown document.
type Frontmatter struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Source string `yaml:"source"`
}

// FormatFrontmatter formats the work metadata as YAML frontmatter followed
// by a top-level heading.
func FormatFrontmatter(listing *webnovel.Listing) (string, error) {
	data, err := yaml.Marshal(Frontmatter{
		Title:  listing.Title,
		Author: listing.Author,
		Source: listing.URL,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n# ")
	b.WriteString(listing.Title)
	b.WriteString("\n")
	return b.String(), nil
}

// FormatSection formats one chapter as a second-level section.
func FormatSection(title, content string) string {
	var b strings.Builder
	b.WriteString("\n## ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString("\n\n")
	if content != "" {
		b.WriteString(strings.TrimSpace(content))
		b.WriteString("\n")
	}
	return b.String()
}
