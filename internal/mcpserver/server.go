// Package mcpserver exposes the transcription pipeline as Model Context
// Protocol tools over stdio, so an agent can transcribe a meeting, look at
// frames to learn participant names and rename the speakers.
package mcpserver

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/processor"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/summarizer"
)

const serverName = "meeting-transcriber"

// Server serves the meeting tools.
type Server struct {
	processor  processor.Processor
	summarizer summarizer.Summarizer
	logger     logger.Logger
	mcp        *server.MCPServer
}

// New creates a Server. summarize_transcript is only offered when sum is
// not nil.
func New(proc processor.Processor, sum summarizer.Summarizer, version string, log logger.Logger) *Server {
	s := &Server{
		processor:  proc,
		summarizer: sum,
		logger:     log,
		mcp:        server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
	}
	s.mcp.AddTools(s.tools()...)
	return s
}

// Serve speaks MCP on in/out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info(ctx, "MCP server listening on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) tools() []server.ServerTool {
	tools := []server.ServerTool{
		{
			Tool: mcp.NewTool("transcribe_meeting",
				mcp.WithDescription("Create a speaker-labelled transcript from a meeting video. Extracts the audio, transcribes it with Whisper and identifies speakers with a diarization model."),
				mcp.WithString("video_path", mcp.Required(), mcp.Description("Absolute path of the video file")),
				mcp.WithString("output_path", mcp.Description("Transcript path. Defaults to <video dir>/<name>_transcript.txt")),
				mcp.WithString("model", mcp.Description("Whisper model size (tiny, base, small, medium, large, large-v3, turbo)"), mcp.DefaultString("medium")),
				mcp.WithNumber("num_speakers", mcp.Description("Number of speakers if known. Improves diarization accuracy")),
			),
			Handler: s.handleTranscribeMeeting,
		},
		{
			Tool: mcp.NewTool("extract_video_frame",
				mcp.WithDescription("Extract the video frame at the given second as a JPEG image, with any on-screen text found by OCR. Use it to read participant names."),
				mcp.WithString("video_path", mcp.Required(), mcp.Description("Absolute path of the video file")),
				mcp.WithNumber("timestamp_seconds", mcp.Required(), mcp.Description("Time of the frame in seconds")),
			),
			Handler: s.handleExtractVideoFrame,
		},
		{
			Tool: mcp.NewTool("update_speaker_names",
				mcp.WithDescription("Replace speaker labels such as \"Speaker 1\" in a transcript file with real names."),
				mcp.WithString("transcript_path", mcp.Required(), mcp.Description("Path of the transcript file")),
				mcp.WithObject("speaker_mapping", mcp.Required(), mcp.Description(`Label to name mapping, e.g. {"Speaker 1": "Tanaka", "Speaker 2": "Sato"}`)),
			),
			Handler: s.handleUpdateSpeakerNames,
		},
		{
			Tool: mcp.NewTool("read_transcript",
				mcp.WithDescription("Read a saved transcript file."),
				mcp.WithString("transcript_path", mcp.Required(), mcp.Description("Path of the transcript file")),
			),
			Handler: s.handleReadTranscript,
		},
	}

	if s.summarizer != nil {
		tools = append(tools, server.ServerTool{
			Tool: mcp.NewTool("summarize_transcript",
				mcp.WithDescription("Write meeting minutes for a transcript with Gemini and save them as markdown next to it."),
				mcp.WithString("transcript_path", mcp.Required(), mcp.Description("Path of the transcript file")),
			),
			Handler: s.handleSummarizeTranscript,
		})
	}
	return tools
}
