package summarizer

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/pkg/docxwriter"
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	// Inline markup Word cannot show; **bold** is kept for RichParagraph.
	inlineMarkup = strings.NewReplacer("__", "", "`", "")
)

// headingSizes maps markdown heading levels to point sizes; deeper levels
// use the body size.
var headingSizes = map[int]uint64{1: 16, 2: 14, 3: 12}

// markdownToDocx converts the minutes markdown to a styled docx file.
// Numbered list items and plain lines become ordinary paragraphs.
func markdownToDocx(title, markdown, outputPath string) error {
	doc, err := docxwriter.New("Arial", 11)
	if err != nil {
		return err
	}

	doc.Heading(title, 16)
	for _, line := range strings.Split(markdown, "\n") {
		line = inlineMarkup.Replace(strings.TrimSpace(line))
		switch m := reHeading.FindStringSubmatch(line); {
		case line == "" || line == "---":
		case m != nil:
			doc.Heading(strings.ReplaceAll(m[2], "**", ""), headingSizes[len(m[1])])
		case reBullet.MatchString(line):
			doc.RichParagraph("• " + reBullet.FindStringSubmatch(line)[1])
		default:
			doc.RichParagraph(line)
		}
	}
	return doc.Save(outputPath)
}
