package processor

import (
	"context"
	"os"
)

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

// cleanupJobDir removes the per-job temp dir and anything left in it.
func (p *implProcessor) cleanupJobDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup job dir %s: %v", dir, err)
	}
}
