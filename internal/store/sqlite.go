package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/syntaxstudio/gateway/internal/model"

	_ "modernc.org/sqlite"
)

const createSubmissionsTable = `
CREATE TABLE IF NOT EXISTS submissions (
    id              TEXT PRIMARY KEY,
    status          TEXT NOT NULL,
    token           TEXT,
    endpoint_host   TEXT,
    language_id     INTEGER NOT NULL,
    source_code     TEXT,
    stdin           TEXT,
    expected_output TEXT,
    status_id       INTEGER,
    status_desc     TEXT,
    stdout          TEXT,
    stderr          TEXT,
    compile_output  TEXT,
    message         TEXT,
    time_s          TEXT,
    memory_kb       REAL,
    error           TEXT,
    created_at      DATETIME NOT NULL,
    submitted_at    DATETIME,
    finished_at     DATETIME
)`

// ErrNotFound is returned when a submission is not found.
var ErrNotFound = errors.New("submission not found")

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(createSubmissionsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create submissions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSubmission inserts a new submission record.
func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (
			id, status, token, endpoint_host, language_id, source_code,
			stdin, expected_output, status_id, status_desc, stdout, stderr,
			compile_output, message, time_s, memory_kb, error,
			created_at, submitted_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Status, sub.Token, sub.EndpointHost, sub.LanguageID, sub.SourceCode,
		sub.Stdin, sub.ExpectedOutput, sub.StatusID, sub.StatusDesc, sub.Stdout, sub.Stderr,
		sub.CompileOutput, sub.Message, sub.Time, sub.Memory, sub.Error,
		sub.CreatedAt, sub.SubmittedAt, sub.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

const submissionColumns = `id, status, token, endpoint_host, language_id, source_code,
	stdin, expected_output, status_id, status_desc, stdout, stderr,
	compile_output, message, time_s, memory_kb, error,
	created_at, submitted_at, finished_at`

func scanSubmission(row interface{ Scan(...any) error }) (*model.Submission, error) {
	sub := &model.Submission{}
	err := row.Scan(
		&sub.ID, &sub.Status, &sub.Token, &sub.EndpointHost, &sub.LanguageID, &sub.SourceCode,
		&sub.Stdin, &sub.ExpectedOutput, &sub.StatusID, &sub.StatusDesc, &sub.Stdout, &sub.Stderr,
		&sub.CompileOutput, &sub.Message, &sub.Time, &sub.Memory, &sub.Error,
		&sub.CreatedAt, &sub.SubmittedAt, &sub.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubmission retrieves a submission by ID.
func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+submissionColumns+" FROM submissions WHERE id = ?", id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns a paginated list of submissions ordered by
// created_at DESC, along with the total count of all submissions.
func (s *SQLiteStore) ListSubmissions(ctx context.Context, limit, offset int) ([]*model.Submission, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT "+submissionColumns+" FROM submissions ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, total, nil
}

// MarkSubmitted records the upstream token and issuing host on a queued
// submission and moves it to the submitted status.
func (s *SQLiteStore) MarkSubmitted(ctx context.Context, id, token, host string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE submissions SET status = ?, token = ?, endpoint_host = ?, submitted_at = ? WHERE id = ?",
		model.StatusSubmitted, token, host, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark submitted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSubmission writes a submission's result state: local status, the
// service's status id and description, decoded outputs, and timing.
func (s *SQLiteStore) UpdateSubmission(ctx context.Context, sub *model.Submission) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET
			status = ?, status_id = ?, status_desc = ?, stdout = ?, stderr = ?,
			compile_output = ?, message = ?, time_s = ?, memory_kb = ?, error = ?,
			finished_at = ?
		WHERE id = ?`,
		sub.Status, sub.StatusID, sub.StatusDesc, sub.Stdout, sub.Stderr,
		sub.CompileOutput, sub.Message, sub.Time, sub.Memory, sub.Error,
		sub.FinishedAt, sub.ID,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSubmissionStats computes aggregate counts and the average reported
// execution time.
func (s *SQLiteStore) GetSubmissionStats(ctx context.Context) (*SubmissionStats, error) {
	stats := &SubmissionStats{
		CountByStatus:   make(map[string]int),
		CountByLanguage: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM submissions GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.CountByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	langRows, err := s.db.QueryContext(ctx, "SELECT language_id, COUNT(*) FROM submissions GROUP BY language_id")
	if err != nil {
		return nil, fmt.Errorf("count by language: %w", err)
	}
	defer langRows.Close()
	for langRows.Next() {
		var languageID, count int
		if err := langRows.Scan(&languageID, &count); err != nil {
			return nil, fmt.Errorf("scan language count: %w", err)
		}
		stats.CountByLanguage[strconv.Itoa(languageID)] = count
	}
	if err := langRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language counts: %w", err)
	}

	// time_s is stored as the service reports it, a decimal string of seconds.
	var avg sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		"SELECT AVG(CAST(time_s AS REAL)) FROM submissions WHERE time_s IS NOT NULL AND time_s != ''",
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average time: %w", err)
	}
	if avg.Valid {
		stats.AvgTimeS = avg.Float64
	}

	return stats, nil
}
