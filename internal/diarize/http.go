package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
)

const maxErrBody = 4096

// HTTP posts audio to a diarization service's /diarize endpoint.
type HTTP struct {
	baseURL   string
	token     string
	threshold float64
	client    *http.Client
	logger    logger.Logger
}

// NewHTTP creates an HTTP service backed Diarizer.
func NewHTTP(cfg config.DiarizationConfig, log logger.Logger) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		token:     cfg.HFToken,
		threshold: cfg.Threshold,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    log,
	}
}

func (h *HTTP) Diarize(ctx context.Context, audioPath string, opts Options) ([]speaker.DiarizationSegment, error) {
	body, contentType, err := h.form(audioPath, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/diarize", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.logger.Info(ctx, "Diarizing with %s: %s", h.baseURL, audioPath)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, fmt.Errorf("diarize %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Segments []rawSegment `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("diarize decode: %w", err)
	}
	segs, err := convert(out.Segments)
	if err != nil {
		return nil, err
	}
	h.logger.Info(ctx, "Diarization completed: %d segments", len(segs))
	return segs, nil
}

func (h *HTTP) form(audioPath string, opts Options) (io.Reader, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", audioPath, err)
	}
	defer fd.Close()
	if _, err := io.Copy(fw, fd); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}

	if opts.NumSpeakers > 0 {
		err = w.WriteField("num_speakers", strconv.Itoa(opts.NumSpeakers))
	} else {
		err = w.WriteField("threshold", strconv.FormatFloat(h.threshold, 'f', -1, 64))
	}
	if err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &b, w.FormDataContentType(), nil
}
