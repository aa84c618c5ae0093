package processor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/diarize"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcribe"
)

// transcribe runs speech recognition on the extracted audio.
func (p *implProcessor) transcribe(ctx context.Context, audioPath string, req Request) (transcribe.Result, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.Whisper.Model
	}
	mode := "max accuracy"
	if req.Fast {
		mode = "fast"
	}
	p.logger.Info(ctx, "[2/3] Transcribing (model %s, %s)", model, mode)

	return p.transcriber.Transcribe(ctx, audioPath, transcribe.Options{
		Model:       model,
		MaxAccuracy: !req.Fast,
	})
}

// label attributes segments to speakers, or gives every segment the
// single label when diarization is off.
func (p *implProcessor) label(ctx context.Context, audioPath string, segs []speaker.TranscriptSegment, req Request) ([]speaker.LabeledSegment, error) {
	if req.NoDiarization || p.diarizer == nil || !p.cfg.Diarization.Enabled {
		p.logger.Info(ctx, "[3/3] Skipping speaker diarization")
		return speaker.Unlabeled(segs, p.cfg.Transcript.SingleLabel), nil
	}

	if req.NumSpeakers > 0 {
		p.logger.Info(ctx, "[3/3] Identifying speakers (%d expected)", req.NumSpeakers)
	} else {
		p.logger.Info(ctx, "[3/3] Identifying speakers")
	}

	diar, err := p.diarizer.Diarize(ctx, audioPath, diarize.Options{NumSpeakers: req.NumSpeakers})
	if err != nil {
		return nil, fmt.Errorf("diarize: %w", err)
	}

	return speaker.AssignWithLabels(segs, diar, speaker.Labels{
		Prefix:  p.cfg.Transcript.SpeakerPrefix,
		Unknown: p.cfg.Transcript.UnknownLabel,
	}), nil
}
