package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services/whisperapi"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/whisperx"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/youtube"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/ytdlp"
	"github.com/HamedGhaneS/My-AI-Tools/internal/transcript"
	"github.com/HamedGhaneS/My-AI-Tools/internal/videoid"
)

// captionSource adapts the YouTube caption client to the selector.
type captionSource struct {
	client *youtube.Client
}

func (c captionSource) FetchCaptions(ctx context.Context, videoID string, languages []string) ([]transcript.Entry, string, error) {
	tr, err := c.client.FetchTranscript(ctx, videoID, languages)
	if err != nil {
		return nil, "", err
	}
	entries := make([]transcript.Entry, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		entries = append(entries, transcript.Entry{
			Text:        e.Text,
			Start:       e.Start,
			Duration:    e.Duration,
			HasDuration: e.HasDuration,
		})
	}
	return entries, tr.Track.LanguageCode, nil
}

// audioSource adapts yt-dlp to the selector.
type audioSource struct {
	client *ytdlp.Client
}

func (a audioSource) DownloadAudio(ctx context.Context, videoID, destDir string, progress transcript.ProgressFunc) (string, error) {
	return a.client.Download(ctx, videoid.WatchURL(videoID), videoID, destDir, progress)
}

// apiRecognizer adapts the hosted Whisper API.
type apiRecognizer struct {
	client *whisperapi.Client
}

func (r apiRecognizer) Transcribe(ctx context.Context, audioPath, language string) (transcript.Result, error) {
	result, err := r.client.Transcribe(ctx, audioPath, language)
	if err != nil {
		return transcript.Result{}, err
	}
	segments := make([]transcript.Segment, 0, len(result.Segments))
	for _, s := range result.Segments {
		segments = append(segments, transcript.Segment{Text: s.Text, Start: s.Start, End: s.End})
	}
	// Some compatible servers return text without segment timings.
	if len(segments) == 0 && result.Text != "" {
		segments = append(segments, transcript.Segment{Text: result.Text, Start: 0, End: max(result.Duration, 0)})
	}
	return transcript.Result{Segments: segments, Text: result.Text}, nil
}

// localRecognizer adapts a local WhisperX run. Intermediate WAV and JSON
// files go to a scratch directory under workDir that is removed afterwards.
type localRecognizer struct {
	service *whisperx.Service
	workDir string
}

func (r localRecognizer) Transcribe(ctx context.Context, audioPath, language string) (transcript.Result, error) {
	scratch, err := os.MkdirTemp(r.workDir, "whisperx-")
	if err != nil {
		return transcript.Result{}, fmt.Errorf("whisperx: create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	segs, err := r.service.Transcribe(ctx, audioPath, scratch, language)
	if err != nil {
		return transcript.Result{}, err
	}
	segments := make([]transcript.Segment, 0, len(segs))
	for _, s := range segs {
		segments = append(segments, transcript.Segment{Text: s.Text, Start: s.Start, End: s.End})
	}
	return transcript.Result{Segments: segments}, nil
}
