package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

const backendPostgres = "postgres"

// OpenPostgres opens a pooled connection and checks it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// PostgresStore keeps records in one table keyed by (student_id, job_id).
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore wraps an open database. The store owns db and closes it.
func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, table: "job_matches"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the table and its feed index when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	student_id      TEXT NOT NULL,
	job_id          TEXT NOT NULL,
	score           DOUBLE PRECISION NOT NULL,
	breakdown       JSONB NOT NULL,
	schedule_status TEXT NOT NULL,
	analysis        JSONB NOT NULL,
	calculated_at   TIMESTAMPTZ NOT NULL,
	submitted_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (student_id, job_id)
)`, s.table),
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS submitted_at TIMESTAMPTZ NOT NULL DEFAULT 'epoch'`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_feed_idx ON %s (student_id, score DESC, job_id)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces the row for the pair. A row submitted later
// than rec is left untouched.
func (s *PostgresStore) Upsert(ctx context.Context, rec Record) (err error) { //nolint:gocritic // records are stored by value
	defer func(start time.Time) { observe(backendPostgres, "upsert", start, err) }(time.Now())
	if err = rec.validate(); err != nil {
		return err
	}

	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	analysis, err := json.Marshal(nonNil(rec.Analysis))
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %[1]s
	(student_id, job_id, score, breakdown, schedule_status, analysis, calculated_at, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (student_id, job_id) DO UPDATE SET
	score = EXCLUDED.score,
	breakdown = EXCLUDED.breakdown,
	schedule_status = EXCLUDED.schedule_status,
	analysis = EXCLUDED.analysis,
	calculated_at = EXCLUDED.calculated_at,
	submitted_at = EXCLUDED.submitted_at
WHERE %[1]s.submitted_at <= EXCLUDED.submitted_at`, s.table)

	if _, err = s.db.ExecContext(ctx, query,
		rec.StudentID, rec.JobID, rec.Score, breakdown, rec.ScheduleStatus, analysis, rec.CalculatedAt, rec.SubmittedAt,
	); err != nil {
		return fmt.Errorf("postgres upsert: %w", err)
	}

	if n, cerr := s.Count(ctx); cerr == nil {
		metrics.UpdateStoreRecords(n)
	}
	return nil
}

// Get returns the row for a pair.
func (s *PostgresStore) Get(ctx context.Context, studentID, jobID string) (Record, error) {
	query := fmt.Sprintf(`SELECT job_id, score, breakdown, schedule_status, analysis, calculated_at, submitted_at
FROM %s WHERE student_id = $1 AND job_id = $2`, s.table)

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, studentID, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("postgres get: %w", err)
	}
	rec.StudentID = studentID
	return rec, nil
}

// ListForStudent returns the student's rows in feed order.
func (s *PostgresStore) ListForStudent(ctx context.Context, studentID string) (out []Record, err error) {
	defer func(start time.Time) { observe(backendPostgres, "list", start, err) }(time.Now())

	query := fmt.Sprintf(`SELECT job_id, score, breakdown, schedule_status, analysis, calculated_at, submitted_at
FROM %s WHERE student_id = $1 ORDER BY score DESC, job_id ASC`, s.table)

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	defer rows.Close()

	out = []Record{}
	for rows.Next() {
		rec, serr := scanRecord(rows)
		if serr != nil {
			return nil, fmt.Errorf("postgres list: %w", serr)
		}
		rec.StudentID = studentID
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	return out, nil
}

// Count returns the number of rows.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres count: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		breakdown []byte
		analysis  []byte
	)
	if err := row.Scan(&rec.JobID, &rec.Score, &breakdown, &rec.ScheduleStatus, &analysis, &rec.CalculatedAt, &rec.SubmittedAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(breakdown, &rec.Breakdown); err != nil {
		return Record{}, fmt.Errorf("decode breakdown: %w", err)
	}
	if err := json.Unmarshal(analysis, &rec.Analysis); err != nil {
		return Record{}, fmt.Errorf("decode analysis: %w", err)
	}
	rec.CalculatedAt = rec.CalculatedAt.UTC()
	rec.SubmittedAt = rec.SubmittedAt.UTC()
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
