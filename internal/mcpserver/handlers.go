package mcpserver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/processor"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
)

// Tool failures are reported as error results, not protocol errors, so
// the agent sees the message.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}

func (s *Server) handleTranscribeMeeting(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoPath, err := request.RequireString("video_path")
	if err != nil {
		return errorResult(err), nil
	}

	res, err := s.processor.Process(ctx, processor.Request{
		VideoPath:   videoPath,
		OutputPath:  request.GetString("output_path", ""),
		Model:       request.GetString("model", ""),
		NumSpeakers: request.GetInt("num_speakers", 0),
	})
	if err != nil {
		s.logger.Error(ctx, "transcribe_meeting %s: %v", videoPath, err)
		return errorResult(err), nil
	}

	var sb strings.Builder
	sb.WriteString("Transcription completed.\n\n")
	fmt.Fprintf(&sb, "Output file: %s\n", res.OutputPath)
	if res.DocxPath != "" {
		fmt.Fprintf(&sb, "DOCX file: %s\n", res.DocxPath)
	}
	fmt.Fprintf(&sb, "Detected speakers: %s\n", strings.Join(res.Speakers, ", "))
	fmt.Fprintf(&sb, "Segments: %d\n\n", res.SegmentCount)
	sb.WriteString("To replace the speaker labels with names, use extract_video_frame to find a frame that shows the participants' names, then update_speaker_names.")
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleExtractVideoFrame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoPath, err := request.RequireString("video_path")
	if err != nil {
		return errorResult(err), nil
	}
	seconds, err := request.RequireFloat("timestamp_seconds")
	if err != nil {
		return errorResult(err), nil
	}

	frame, err := s.processor.Frame(ctx, videoPath, seconds)
	if err != nil {
		return errorResult(err), nil
	}

	data, err := os.ReadFile(frame.Path)
	if err != nil {
		return errorResult(fmt.Errorf("read frame: %w", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Extracted frame at %gs (video length: %.1fs)\nSaved to: %s\n", seconds, frame.VideoDuration, frame.Path)
	if len(frame.Lines) > 0 {
		sb.WriteString("\nText on screen:\n")
		for _, line := range frame.Lines {
			sb.WriteString("  " + line + "\n")
		}
	}
	return mcp.NewToolResultImage(sb.String(), base64.StdEncoding.EncodeToString(data), "image/jpeg"), nil
}

func (s *Server) handleUpdateSpeakerNames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("transcript_path")
	if err != nil {
		return errorResult(err), nil
	}
	mapping, err := speakerMapping(request.GetArguments()["speaker_mapping"])
	if err != nil {
		return errorResult(err), nil
	}

	replacements, err := transcript.RenameSpeakers(path, mapping)
	if errors.Is(err, transcript.ErrNotFound) {
		return mcp.NewToolResultText("File not found: " + path), nil
	}
	if err != nil {
		return errorResult(err), nil
	}

	if len(replacements) == 0 {
		return mcp.NewToolResultText("No matching speaker labels found. Check the speaker names in the transcript."), nil
	}

	lines := make([]string, len(replacements))
	for i, r := range replacements {
		lines[i] = r.String()
	}
	s.logger.Info(ctx, "Renamed speakers in %s: %s", path, strings.Join(lines, "; "))
	return mcp.NewToolResultText("Speaker names updated.\n\nReplacements:\n" + strings.Join(lines, "\n")), nil
}

func (s *Server) handleReadTranscript(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("transcript_path")
	if err != nil {
		return errorResult(err), nil
	}

	content, err := transcript.Read(path)
	if errors.Is(err, transcript.ErrNotFound) {
		return mcp.NewToolResultText("File not found: " + path), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleSummarizeTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("transcript_path")
	if err != nil {
		return errorResult(err), nil
	}

	mdPath, err := s.summarizer.Summarize(ctx, path, "")
	if errors.Is(err, transcript.ErrNotFound) {
		return mcp.NewToolResultText("File not found: " + path), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Meeting minutes saved: " + mdPath), nil
}

// speakerMapping converts the decoded JSON object argument.
func speakerMapping(v any) (map[string]string, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("speaker_mapping must be an object of label to name")
	}
	mapping := make(map[string]string, len(raw))
	for old, name := range raw {
		str, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("speaker_mapping[%q] must be a string", old)
		}
		if old == "" {
			return nil, fmt.Errorf("speaker_mapping has an empty label")
		}
		mapping[old] = str
	}
	return mapping, nil
}
