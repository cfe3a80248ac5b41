package epub

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func containerDocument() *etree.Document {
	doc := newDocument()
	container := doc.CreateElement("container")
	container.CreateAttr("version", "1.0")
	container.CreateAttr("xmlns", "urn:oasis:names:tc:opendocument:xmlns:container")
	rootfile := container.CreateElement("rootfiles").CreateElement("rootfile")
	rootfile.CreateAttr("full-path", contentDir+"/content.opf")
	rootfile.CreateAttr("media-type", "application/oebps-package+xml")
	return doc
}

// chapterID returns the manifest id for the chapter at position i.
func chapterID(i int) string {
	return "chapter-" + strconv.Itoa(i)
}

func (a *Assembler) packageDocument() *etree.Document {
	doc := newDocument()
	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", "http://www.idpf.org/2007/opf")
	pkg.CreateAttr("version", "3.0")
	pkg.CreateAttr("unique-identifier", "pub-id")

	meta := pkg.CreateElement("metadata")
	meta.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	id := meta.CreateElement("dc:identifier")
	id.CreateAttr("id", "pub-id")
	id.SetText(a.id)
	meta.CreateElement("dc:title").SetText(a.listing.Title)
	if a.listing.Author != "" {
		meta.CreateElement("dc:creator").SetText(a.listing.Author)
	}
	meta.CreateElement("dc:language").SetText(a.language)
	if a.listing.URL != "" {
		meta.CreateElement("dc:source").SetText(a.listing.URL)
	}
	modified := meta.CreateElement("meta")
	modified.CreateAttr("property", "dcterms:modified")
	modified.SetText(a.now().UTC().Format("2006-01-02T15:04:05Z"))

	manifest := pkg.CreateElement("manifest")
	addItem(manifest, "nav", "nav.xhtml", mediaTypeXHTML).CreateAttr("properties", "nav")
	addItem(manifest, "ncx", "toc.ncx", mediaTypeNCX)
	for i, ch := range a.chapters {
		addItem(manifest, chapterID(i), ch.filename, mediaTypeXHTML)
	}

	spine := pkg.CreateElement("spine")
	spine.CreateAttr("toc", "ncx")
	spine.CreateElement("itemref").CreateAttr("idref", "nav")
	for i := range a.chapters {
		spine.CreateElement("itemref").CreateAttr("idref", chapterID(i))
	}
	return doc
}

func addItem(manifest *etree.Element, id, href, mediaType string) *etree.Element {
	item := manifest.CreateElement("item")
	item.CreateAttr("id", id)
	item.CreateAttr("href", href)
	item.CreateAttr("media-type", mediaType)
	return item
}

// navDocument builds the inline table of contents.
func (a *Assembler) navDocument() *etree.Document {
	doc := newDocument()
	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateAttr("xmlns:epub", "http://www.idpf.org/2007/ops")
	html.CreateElement("head").CreateElement("title").SetText(a.listing.Title)

	nav := html.CreateElement("body").CreateElement("nav")
	nav.CreateAttr("epub:type", "toc")
	nav.CreateAttr("id", "toc")
	nav.CreateElement("h1").SetText("Table of Contents")
	ol := nav.CreateElement("ol")
	for _, ch := range a.chapters {
		link := ol.CreateElement("li").CreateElement("a")
		link.CreateAttr("href", ch.filename)
		link.SetText(label(ch))
	}
	return doc
}

func (a *Assembler) ncxDocument() *etree.Document {
	doc := newDocument()
	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", "http://www.daisy.org/z3986/2005/ncx/")
	ncx.CreateAttr("version", "2005-1")

	uid := ncx.CreateElement("head").CreateElement("meta")
	uid.CreateAttr("name", "dtb:uid")
	uid.CreateAttr("content", a.id)

	ncx.CreateElement("docTitle").CreateElement("text").SetText(a.listing.Title)

	navMap := ncx.CreateElement("navMap")
	for i, ch := range a.chapters {
		point := navMap.CreateElement("navPoint")
		point.CreateAttr("id", "navpoint-"+strconv.Itoa(i+1))
		point.CreateAttr("playOrder", strconv.Itoa(i+1))
		point.CreateElement("navLabel").CreateElement("text").SetText(label(ch))
		point.CreateElement("content").CreateAttr("src", ch.filename)
	}
	return doc
}

// label is the table of contents text for a chapter. Untitled chapters
// fall back to their file name so every entry stays clickable.
func label(ch chapter) string {
	if t := strings.TrimSpace(ch.title); t != "" {
		return t
	}
	return ch.filename
}
