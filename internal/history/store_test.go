package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/history"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
	"github.com/HamedGhaneS/My-AI-Tools/internal/testsupport"
)

func TestBeginFinishRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run, err := store.Begin(ctx, history.Run{
		RequestID: "req-1",
		Source:    "https://youtu.be/dQw4w9WgXcQ",
		VideoID:   "dQw4w9WgXcQ",
		Language:  "fa",
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if run.ID == 0 || run.Status != services.StatusRunning || run.Kind != history.KindVideo {
		t.Fatalf("unexpected run %+v", run)
	}

	if err := store.Finish(ctx, "req-1", history.Outcome{
		Status:         services.StatusCompleted,
		Tier:           "fallback",
		SubtitlePath:   "/tmp/subtitle_dQw4w9WgXcQ_fa.srt",
		SegmentCount:   12,
		FallbackReason: "not found: transcripts are disabled",
	}); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Status != services.StatusCompleted || got.Tier != "fallback" || got.SegmentCount != 12 {
		t.Fatalf("unexpected stored run %+v", got)
	}
	if got.FallbackReason == "" || got.FinishedAt == nil {
		t.Fatalf("expected fallback reason and finish time, got %+v", got)
	}
	if got.Duration() < 0 {
		t.Fatalf("unexpected duration %v", got.Duration())
	}
}

func TestBeginRequiresRequestID(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if _, err := store.Begin(context.Background(), history.Run{Source: "x"}); err == nil {
		t.Fatal("expected error without request id")
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if err := store.Finish(context.Background(), "missing", history.Outcome{}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestListNewestFirstAndClear(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if _, err := store.Begin(ctx, history.Run{
			RequestID: id,
			Kind:      history.KindFile,
			Source:    id + ".mp3",
			Language:  "en",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Begin %s failed: %v", id, err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 || runs[0].RequestID != "c" || runs[1].RequestID != "b" {
		t.Fatalf("unexpected order %+v", runs)
	}
	if runs[0].Kind != history.KindFile || runs[0].VideoID != "" {
		t.Fatalf("unexpected file run %+v", runs[0])
	}

	removed, err := store.Clear(ctx)
	if err != nil || removed != 3 {
		t.Fatalf("Clear returned %d, %v", removed, err)
	}
	runs, err = store.List(ctx, 0)
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty history, got %d (%v)", len(runs), err)
	}
}

func TestMarkInterrupted(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := store.Begin(ctx, history.Run{RequestID: "stuck", Source: "s", Language: "en"}); err != nil {
		t.Fatal(err)
	}
	n, err := store.MarkInterrupted(ctx)
	if err != nil || n != 1 {
		t.Fatalf("MarkInterrupted returned %d, %v", n, err)
	}
	got, _ := store.Get(ctx, "stuck")
	if got.Status != services.StatusFailed || got.ErrorMessage == "" {
		t.Fatalf("unexpected run after interrupt %+v", got)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.Begin(context.Background(), history.Run{RequestID: "keep", Source: "s", Language: "en"}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := testsupport.MustOpenHistory(t, cfg)
	if got, err := second.Get(context.Background(), "keep"); err != nil || got == nil {
		t.Fatalf("expected run to survive reopen, got %+v, %v", got, err)
	}
}
