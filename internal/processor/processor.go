package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
)

// Process orchestrates the entire meeting transcription pipeline
func (p *implProcessor) Process(ctx context.Context, req Request) (Result, error) {
	if req.VideoPath == "" {
		return Result{}, fmt.Errorf("video path is required")
	}

	if p.sem.busy() > 0 {
		p.logger.Info(ctx, "Waiting for a free transcription slot: %s", req.VideoPath)
	}
	if err := p.sem.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer p.sem.release()

	startTime := time.Now()
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = transcript.DefaultOutputPath(req.VideoPath)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting meeting transcription: %s", req.VideoPath)
	p.logger.Info(ctx, "========================================")

	jobDir, err := p.newJobDir(req.VideoPath)
	if err != nil {
		return Result{}, err
	}
	defer p.cleanupJobDir(ctx, jobDir)

	// Step 1: Extract audio
	audioPath, err := p.extractAudio(ctx, req.VideoPath, jobDir)
	if err != nil {
		return Result{}, fmt.Errorf("extract audio: %w", err)
	}
	defer p.cleanupTempFile(ctx, audioPath)

	// Step 2: Speech recognition
	recognized, err := p.transcribe(ctx, audioPath, req)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}

	// Step 3: Speaker attribution
	labeled, err := p.label(ctx, audioPath, recognized.Segments, req)
	if err != nil {
		return Result{}, err
	}

	blocks := transcript.Merge(labeled)
	docxPath, err := p.writeOutputs(ctx, outputPath, req.VideoPath, blocks)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		OutputPath:   outputPath,
		DocxPath:     docxPath,
		Speakers:     speaker.Speakers(labeled, p.cfg.Transcript.UnknownLabel),
		SegmentCount: len(labeled),
		Duration:     time.Since(startTime),
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Transcription completed successfully!")
	p.logger.Info(ctx, "Output: %s", res.OutputPath)
	p.logger.Info(ctx, "Speakers: %v", res.Speakers)
	p.logger.Info(ctx, "Processing time: %s", res.Duration.Round(time.Second))
	p.logger.Info(ctx, "========================================")

	return res, nil
}
