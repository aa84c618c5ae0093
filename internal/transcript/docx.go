package transcript

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-transcriber/pkg/docxwriter"
)

// WriteDocx writes blocks as a Word document: the title, then one bold
// "speaker (MM:SS)" heading and one body paragraph per block.
func WriteDocx(path, title string, blocks []Block) error {
	doc, err := docxwriter.New("Times New Roman", 12)
	if err != nil {
		return err
	}

	doc.Heading(title, 16)
	doc.Blank()
	for _, b := range blocks {
		doc.Heading(fmt.Sprintf("%s (%s)", b.Speaker, FormatTimestamp(b.Start)), 0)
		doc.Paragraph(b.Text)
	}
	return doc.Save(path)
}
