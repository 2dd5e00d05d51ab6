package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

const runColumns = "id, request_id, kind, source, video_id, language, tier, status, subtitle_path, segment_count, translated, fallback_reason, error_message, started_at, finished_at"

// Begin records a run in the running state and returns it with its ID set.
func (s *Store) Begin(ctx context.Context, run Run) (*Run, error) {
	if strings.TrimSpace(run.RequestID) == "" {
		return nil, errors.New("history: request id is required")
	}
	if run.Kind == "" {
		run.Kind = KindVideo
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = services.StatusRunning

	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (request_id, kind, source, video_id, language, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RequestID,
		string(run.Kind),
		run.Source,
		nullableString(run.VideoID),
		run.Language,
		string(run.Status),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}
	run.ID = id
	return &run, nil
}

// Finish stamps the terminal outcome onto the run identified by requestID.
func (s *Store) Finish(ctx context.Context, requestID string, outcome Outcome) error {
	if outcome.Status == "" {
		outcome.Status = services.StatusCompleted
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET tier = ?, status = ?, subtitle_path = ?, segment_count = ?, translated = ?,
		 fallback_reason = ?, error_message = ?, finished_at = ?
		 WHERE request_id = ?`,
		nullableString(outcome.Tier),
		string(outcome.Status),
		nullableString(outcome.SubtitlePath),
		outcome.SegmentCount,
		boolToInt(outcome.Translated),
		nullableString(outcome.FallbackReason),
		nullableString(outcome.ErrorMessage),
		time.Now().UTC().Format(time.RFC3339Nano),
		requestID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("history: run %s not found", requestID)
	}
	return nil
}

// Get returns the run for requestID, or nil when none exists.
func (s *Store) Get(ctx context.Context, requestID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+runColumns+" FROM runs WHERE request_id = ?", requestID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns runs newest first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Clear removes every recorded run and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

// MarkInterrupted fails runs left in the running state by a process that
// exited without finishing them.
func (s *Store) MarkInterrupted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE status = ?",
		string(services.StatusFailed),
		"interrupted before completion",
		time.Now().UTC().Format(time.RFC3339Nano),
		string(services.StatusRunning),
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		kind        string
		status      string
		videoID     sql.NullString
		tier        sql.NullString
		subtitle    sql.NullString
		translated  int64
		fallback    sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RequestID,
		&kind,
		&run.Source,
		&videoID,
		&run.Language,
		&tier,
		&status,
		&subtitle,
		&run.SegmentCount,
		&translated,
		&fallback,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Kind = Kind(kind)
	run.Status = services.RunStatus(status)
	run.VideoID = videoID.String
	run.Tier = tier.String
	run.SubtitlePath = subtitle.String
	run.Translated = translated != 0
	run.FallbackReason = fallback.String
	run.ErrorMessage = errorMsg.String
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
