package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
)

// writeOutputs saves the transcript text and, when enabled, a DOCX copy
// next to it. A failed DOCX export does not fail the job.
func (p *implProcessor) writeOutputs(ctx context.Context, outputPath, videoPath string, blocks []transcript.Block) (string, error) {
	if err := transcript.Write(outputPath, blocks); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	p.logger.Info(ctx, "Transcript saved: %s", outputPath)

	if !p.cfg.Export.Docx {
		return "", nil
	}
	docxPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".docx"
	if err := transcript.WriteDocx(docxPath, filepath.Base(videoPath), blocks); err != nil {
		p.logger.Warn(ctx, "Failed to export DOCX: %v", err)
		return "", nil
	}
	p.logger.Info(ctx, "DOCX saved: %s", docxPath)
	return docxPath, nil
}
