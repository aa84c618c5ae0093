// Package speaker attributes transcription segments to diarized speakers.
//
// A transcription segment is given the speaker of the diarization segment it
// overlaps the most. If it overlaps none, the speaker whose segment contains
// its midpoint is used instead. Raw diarization ids (SPEAKER_0, SPEAKER_1, ...)
// are renamed to ordinal labels so transcripts read "Speaker 1", "Speaker 2".
package speaker

import (
	"fmt"
	"sort"
	"strings"
)

// TranscriptSegment is a span of recognised speech, in seconds.
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// DiarizationSegment is a span attributed to one raw speaker id, in seconds.
type DiarizationSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// LabeledSegment is a transcription segment with its speaker label.
// OriginalSpeaker is the raw diarization id, empty when unmatched.
type LabeledSegment struct {
	Start           float64
	End             float64
	Text            string
	Speaker         string
	OriginalSpeaker string
}

// Labels controls how speakers are named in the output.
type Labels struct {
	// Prefix is joined with the 1-based ordinal, "Speaker " -> "Speaker 1".
	Prefix string
	// Unknown labels segments no diarization segment accounts for.
	Unknown string
}

// DefaultLabels are used by Assign.
var DefaultLabels = Labels{Prefix: "Speaker ", Unknown: "Unknown"}

// Assign labels each transcription segment using DefaultLabels.
func Assign(transcript []TranscriptSegment, diarization []DiarizationSegment) []LabeledSegment {
	return AssignWithLabels(transcript, diarization, DefaultLabels)
}

// AssignWithLabels labels each transcription segment. The output has one
// entry per input segment, in input order.
func AssignWithLabels(transcript []TranscriptSegment, diarization []DiarizationSegment, labels Labels) []LabeledSegment {
	ordinals := OrdinalMap(diarization, labels.Prefix)

	out := make([]LabeledSegment, 0, len(transcript))
	for _, seg := range transcript {
		raw := bestSpeaker(seg, diarization)

		label := labels.Unknown
		if l, ok := ordinals[raw]; ok && raw != "" {
			label = l
		}

		out = append(out, LabeledSegment{
			Start:           seg.Start,
			End:             seg.End,
			Text:            strings.TrimSpace(seg.Text),
			Speaker:         label,
			OriginalSpeaker: raw,
		})
	}
	return out
}

// Unlabeled gives every segment the same label, for runs without diarization.
func Unlabeled(transcript []TranscriptSegment, label string) []LabeledSegment {
	out := make([]LabeledSegment, 0, len(transcript))
	for _, seg := range transcript {
		out = append(out, LabeledSegment{
			Start:   seg.Start,
			End:     seg.End,
			Text:    strings.TrimSpace(seg.Text),
			Speaker: label,
		})
	}
	return out
}

// OrdinalMap maps each distinct raw speaker id, in sorted order, to
// prefix+ordinal.
func OrdinalMap(diarization []DiarizationSegment, prefix string) map[string]string {
	seen := make(map[string]struct{}, len(diarization))
	ids := make([]string, 0, len(diarization))
	for _, d := range diarization {
		if _, ok := seen[d.Speaker]; ok {
			continue
		}
		seen[d.Speaker] = struct{}{}
		ids = append(ids, d.Speaker)
	}
	sort.Strings(ids)

	m := make(map[string]string, len(ids))
	for i, id := range ids {
		m[id] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return m
}

// Speakers returns the sorted distinct labels in segments, without unknown.
func Speakers(segments []LabeledSegment, unknown string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range segments {
		if s.Speaker == unknown {
			continue
		}
		if _, ok := seen[s.Speaker]; ok {
			continue
		}
		seen[s.Speaker] = struct{}{}
		out = append(out, s.Speaker)
	}
	sort.Strings(out)
	return out
}

// Overlap is the length of the intersection of [aStart,aEnd] and
// [bStart,bEnd], or 0 if they are disjoint.
func Overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	return max(0, min(aEnd, bEnd)-max(aStart, bStart))
}

// bestSpeaker returns the raw id of the matching diarization segment, or ""
// when there is none. Ties keep the earliest segment.
func bestSpeaker(seg TranscriptSegment, diarization []DiarizationSegment) string {
	best := ""
	bestOverlap := 0.0
	for _, d := range diarization {
		if o := Overlap(seg.Start, seg.End, d.Start, d.End); o > bestOverlap {
			bestOverlap = o
			best = d.Speaker
		}
	}
	if bestOverlap > 0 {
		return best
	}

	mid := (seg.Start + seg.End) / 2
	for _, d := range diarization {
		if d.Start <= mid && mid <= d.End {
			return d.Speaker
		}
	}
	return ""
}
