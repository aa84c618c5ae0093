// Package docxwriter builds simple black-on-white Word documents out of
// headings and paragraphs.
package docxwriter

import (
	"fmt"
	"regexp"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Document is a Word document where every run shares one font.
type Document struct {
	doc  *docx.RootDoc
	font string
	size uint64
}

// New starts an empty document. size is the body text size in points.
func New(font string, size uint64) (*Document, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}
	return &Document{doc: doc, font: font, size: size}, nil
}

// Heading adds a bold paragraph. A zero size uses the body size.
func (d *Document) Heading(text string, size uint64) {
	if size == 0 {
		size = d.size
	}
	d.run(d.doc.AddParagraph(""), text, size).Bold(true)
}

// Paragraph adds plain body text.
func (d *Document) Paragraph(text string) {
	d.run(d.doc.AddParagraph(""), text, d.size)
}

// RichParagraph adds body text where **spans** become bold runs.
func (d *Document) RichParagraph(text string) {
	p := d.doc.AddParagraph("")
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)
	for i, part := range parts {
		if part != "" {
			d.run(p, part, d.size)
		}
		if i < len(matches) {
			d.run(p, matches[i][1], d.size).Bold(true)
		}
	}
}

// Blank adds an empty paragraph.
func (d *Document) Blank() {
	d.doc.AddParagraph("")
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	if err := d.doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func (d *Document) run(p *docx.Paragraph, text string, size uint64) *docx.Run {
	return p.AddText(text).Font(d.font).Size(size).Color("000000")
}
