package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/mcpserver"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/processor"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcribe"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
)

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "meeting-transcriber",
		Short:        "Speaker-labelled transcripts of meeting videos",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $MT_CONFIG or ~/.config/meeting-transcriber/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(
		a.newTranscribeCommand(),
		a.newServeCommand(),
		a.newWatchCommand(),
		a.newLogsCommand(),
		a.newFrameCommand(),
		a.newRenameCommand(),
		a.newSummarizeCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

func (a *app) newTranscribeCommand() *cobra.Command {
	var output, model string
	var fast, noDiarization bool
	var speakers int

	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a meeting video with speaker labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(videoPath); err != nil {
				return fmt.Errorf("file not found: %s", videoPath)
			}
			if model != "" && !validModel(model) {
				return fmt.Errorf("unknown model %q (choose from %s)", model, strings.Join(transcribe.ModelNames(), ", "))
			}
			if output == "" {
				output = transcript.DefaultOutputPath(videoPath)
			}

			proc, err := a.newProcessor()
			if err != nil {
				return err
			}

			mode := "max accuracy"
			if fast {
				mode = "fast"
			}
			shownModel := model
			if shownModel == "" {
				shownModel = a.cfg.Whisper.Model
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video:  %s\n", videoPath)
			fmt.Fprintf(out, "Output: %s\n", output)
			fmt.Fprintf(out, "Model:  %s (%s)\n\n", shownModel, mode)

			res, err := proc.Process(cmd.Context(), processor.Request{
				VideoPath:     videoPath,
				OutputPath:    output,
				Model:         model,
				Fast:          fast,
				NoDiarization: noDiarization,
				NumSpeakers:   speakers,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			green.Fprintf(out, "Done in %s\n", res.Duration.Round(time.Second))
			fmt.Fprintf(out, "Speakers: %s\n", strings.Join(res.Speakers, ", "))
			fmt.Fprintf(out, "Segments: %d\n", res.SegmentCount)
			bold.Fprintf(out, "Output file: %s\n", res.OutputPath)
			if res.DocxPath != "" {
				fmt.Fprintf(out, "DOCX file: %s\n", res.DocxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "transcript path (default <video dir>/<name>_transcript.txt)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "whisper model: "+strings.Join(transcribe.ModelNames(), ", ")+" (default from config)")
	cmd.Flags().BoolVar(&fast, "fast", false, "favour speed over accuracy")
	cmd.Flags().BoolVar(&noDiarization, "no-diarization", false, "skip speaker identification")
	cmd.Flags().IntVar(&speakers, "speakers", 0, "number of speakers, if known")
	return cmd
}

func (a *app) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := a.newProcessor()
			if err != nil {
				return err
			}
			sum, err := a.newSummarizer()
			if err != nil {
				return err
			}
			srv := mcpserver.New(proc, sum, version, a.log)
			err = srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}
}

func (a *app) newWatchCommand() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Transcribe every video dropped into the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if input == "" {
				input = a.cfg.Paths.Input
			}
			if output == "" {
				output = a.cfg.Paths.Output
			}
			if err := os.MkdirAll(output, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			proc, err := a.newProcessor()
			if err != nil {
				return err
			}

			handler := func(ctx context.Context, videoPath string) error {
				_, err := proc.Process(ctx, processor.Request{
					VideoPath:  videoPath,
					OutputPath: filepath.Join(output, transcript.Stem(videoPath)+"_transcript.txt"),
				})
				return err
			}

			w, err := watcher.New(watcher.Options{
				InputDir:      input,
				MaxConcurrent: a.cfg.Performance.MaxConcurrent,
			}, handler, a.log)
			if err != nil {
				return err
			}
			defer w.Stop()

			a.log.Info(ctx, "Monitoring: %s", input)
			a.log.Info(ctx, "Output: %s", output)
			a.log.Info(ctx, "Press Ctrl+C to stop")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "directory to watch (default paths.input)")
	cmd.Flags().StringVar(&output, "output", "", "transcript directory (default paths.output)")
	return cmd
}

func (a *app) newLogsCommand() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the progress log of running transcriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Paths.LogFile
			if !follow {
				data, err := os.ReadFile(path)
				if errors.Is(err, os.ErrNotExist) {
					fmt.Fprintf(cmd.ErrOrStderr(), "No log yet at %s\n", path)
					return nil
				}
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n\n", path)
			return watcher.Follow(cmd.Context(), path, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "keep printing new lines as they are written")
	return cmd
}

func (a *app) newFrameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "frame <video> <seconds>",
		Short: "Extract a frame and read the names shown on screen",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q", args[1])
			}
			proc, err := a.newProcessor()
			if err != nil {
				return err
			}

			res, err := proc.Frame(cmd.Context(), args[0], seconds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Frame at %gs (video length %.1fs): %s\n", seconds, res.VideoDuration, res.Path)
			if len(res.Lines) > 0 {
				bold.Fprintln(out, "Text on screen:")
				for _, line := range res.Lines {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			return nil
		},
	}
}

func (a *app) newRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <transcript> OLD=NEW...",
		Short:   "Replace speaker labels with real names",
		Example: `  meeting-transcriber rename standup_transcript.txt "Speaker 1=Tanaka" "Speaker 2=Sato"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := parseMapping(args[1:])
			if err != nil {
				return err
			}

			reps, err := transcript.RenameSpeakers(args[0], mapping)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(reps) == 0 {
				fmt.Fprintln(out, "No matching speaker labels found. Check the speaker names in the transcript.")
				return nil
			}
			green.Fprintln(out, "Speaker names updated:")
			for _, r := range reps {
				fmt.Fprintf(out, "  %s\n", r)
			}
			return nil
		},
	}
}

func (a *app) newSummarizeCommand() *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "summarize <transcript|dir>",
		Short: "Write meeting minutes with Gemini",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.newSummarizer()
			if err != nil {
				return err
			}
			if sum == nil {
				return summarizer.ErrNoAPIKeys
			}

			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.IsDir() {
				n, err := sum.SummarizeAll(cmd.Context(), args[0], destDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Summarized %d transcripts\n", n)
				return nil
			}

			mdPath, err := sum.Summarize(cmd.Context(), args[0], destDir)
			if err != nil {
				return err
			}
			bold.Fprintf(cmd.OutOrStdout(), "Minutes: %s\n", mdPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "output", "o", "", "directory for the minutes (default next to the transcript)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "meeting-transcriber %s\n", version)
		},
	}
}

// parseMapping reads OLD=NEW pairs, split at the first '='.
func parseMapping(pairs []string) (map[string]string, error) {
	mapping := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		old, name, ok := strings.Cut(pair, "=")
		old = strings.TrimSpace(old)
		if !ok || old == "" {
			return nil, fmt.Errorf("invalid mapping %q, want OLD=NEW", pair)
		}
		mapping[old] = strings.TrimSpace(name)
	}
	return mapping, nil
}

func validModel(name string) bool {
	if strings.HasSuffix(name, ".bin") || strings.ContainsRune(name, filepath.Separator) {
		return true
	}
	if slices.Contains(transcribe.ModelNames(), name) {
		return true
	}
	return strings.HasPrefix(name, "whisper-") || strings.HasPrefix(name, "gpt-")
}
