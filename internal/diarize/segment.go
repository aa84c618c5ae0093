package diarize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
)

// rawSegment is what diarization helpers print. Clustering tools emit a
// numeric "label", pyannote style tools a string "speaker".
type rawSegment struct {
	Start   float64         `json:"start"`
	End     float64         `json:"end"`
	Label   json.RawMessage `json:"label,omitempty"`
	Speaker string          `json:"speaker,omitempty"`
}

func (r rawSegment) speakerID() (string, error) {
	if r.Speaker != "" {
		return r.Speaker, nil
	}
	if len(r.Label) == 0 {
		return "", fmt.Errorf("segment %.2f-%.2f has no speaker", r.Start, r.End)
	}

	var n json.Number
	if err := json.Unmarshal(r.Label, &n); err == nil {
		return "SPEAKER_" + n.String(), nil
	}
	var s string
	if err := json.Unmarshal(r.Label, &s); err != nil {
		return "", fmt.Errorf("segment %.2f-%.2f: invalid label %s", r.Start, r.End, r.Label)
	}
	if strings.HasPrefix(s, "SPEAKER_") {
		return s, nil
	}
	return "SPEAKER_" + s, nil
}

func convert(raw []rawSegment) ([]speaker.DiarizationSegment, error) {
	out := make([]speaker.DiarizationSegment, 0, len(raw))
	for _, r := range raw {
		id, err := r.speakerID()
		if err != nil {
			return nil, err
		}
		out = append(out, speaker.DiarizationSegment{Start: r.Start, End: r.End, Speaker: id})
	}
	return out, nil
}

// parseSegments accepts a bare JSON array or an object with a "segments"
// array.
func parseSegments(data []byte) ([]speaker.DiarizationSegment, error) {
	trimmed := strings.TrimSpace(string(data))
	var raw []rawSegment
	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Segments []rawSegment `json:"segments"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
			return nil, fmt.Errorf("invalid diarization JSON: %w", err)
		}
		raw = wrapped.Segments
	} else if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("invalid diarization JSON: %w", err)
	}
	return convert(raw)
}
