// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index records audit reports per run in a SQLite ledger so scores
// can be compared across runs.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/content-engine/pkg/types"
)

// DefaultDirName is the index directory under the output root. The leading
// dot keeps it out of published trees.
const DefaultDirName = ".index"

const (
	dbFile = "runs.db"

	// timeFmt is fixed-width so stored timestamps sort lexically.
	timeFmt = "2006-01-02T15:04:05.000000000Z"
)

// Store manages the run index database.
type Store struct {
	db  *sql.DB
	dir string
	now func() time.Time
}

// Entry is one audit report recorded for a topic in a run.
type Entry struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Slug      string            `json:"slug" yaml:"slug"`
	Source    string            `json:"source" yaml:"source"`
	Report    types.AuditReport `json:"report" yaml:"report"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
}

// Open opens or creates dir/runs.db and its schema.
func Open(cfg types.IndexConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join("output", DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Exists reports whether dir already holds a run index. Readers check it
// before Open so that querying never creates an empty database.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, dbFile))
	return err == nil && info.Mode().IsRegular()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			run_id TEXT NOT NULL,
			slug TEXT NOT NULL,
			source TEXT,
			score INTEGER NOT NULL,
			issues TEXT,
			lang TEXT,
			length INTEGER,
			created_at TEXT NOT NULL,
			PRIMARY KEY (run_id, slug)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_slug ON reports(slug, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts the report for slug in runID.
func (s *Store) Record(ctx context.Context, runID, source string, slug string, r types.AuditReport) error {
	issues, err := json.Marshal(r.Issues)
	if err != nil {
		return fmt.Errorf("marshaling issues: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (run_id, slug, source, score, issues, lang, length, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, slug) DO UPDATE SET
			source=excluded.source, score=excluded.score, issues=excluded.issues,
			lang=excluded.lang, length=excluded.length, created_at=excluded.created_at`,
		runID, slug, source, r.Score, string(issues), r.Lang, r.Length,
		s.now().UTC().Format(timeFmt),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", slug, err)
	}
	return nil
}

// QueryOptions filters Latest.
type QueryOptions struct {
	// Slug restricts results to one topic.
	Slug string

	// MinScore drops reports scoring below it.
	MinScore int

	// RunID restricts results to one run instead of the latest per slug.
	RunID string
}

// Latest returns the most recent report for every slug, ordered by slug.
func (s *Store) Latest(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT r.run_id, r.slug, r.source, r.score, r.issues, r.lang, r.length, r.created_at FROM reports r`)
	if opts.RunID != "" {
		qb.WriteString(` WHERE r.run_id = ?`)
		args = append(args, opts.RunID)
	} else {
		qb.WriteString(` JOIN (SELECT slug, MAX(created_at) AS latest FROM reports GROUP BY slug) l
			ON r.slug = l.slug AND r.created_at = l.latest WHERE 1=1`)
	}
	if opts.Slug != "" {
		qb.WriteString(` AND r.slug = ?`)
		args = append(args, opts.Slug)
	}
	if opts.MinScore > 0 {
		qb.WriteString(` AND r.score >= ?`)
		args = append(args, opts.MinScore)
	}
	qb.WriteString(` ORDER BY r.slug`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			source    sql.NullString
			issues    sql.NullString
			lang      sql.NullString
			length    sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&e.RunID, &e.Slug, &source, &e.Report.Score, &issues, &lang, &length, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		e.Source = source.String
		e.Report.Lang = lang.String
		e.Report.Length = int(length.Int64)
		e.Report.Issues = []string{}
		if issues.Valid && issues.String != "" && issues.String != "null" {
			if err := json.Unmarshal([]byte(issues.String), &e.Report.Issues); err != nil {
				return nil, fmt.Errorf("decoding issues for %s: %w", e.Slug, err)
			}
		}
		if t, err := time.Parse(timeFmt, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
