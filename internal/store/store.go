// Package store persists completed transcription results: the full
// payload as a JSON file in the output directory, plus a metadata row
// in SQLite for listing and lookup.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/user/stt-diarizer/internal/pipeline"
)

// Record is one row of transcript metadata.
type Record struct {
	JobID        string    `json:"job_id"`
	Name         string    `json:"name"`
	Source       string    `json:"source"`
	Language     string    `json:"language"`
	Duration     float64   `json:"duration"`
	WordCount    int       `json:"word_count"`
	SpeakerCount int       `json:"speaker_count"`
	LocalPath    string    `json:"local_path"`
	CreatedAt    time.Time `json:"created_at"`
}

type Store struct {
	db        *sql.DB
	outputDir string
}

func New(dbPath, outputDir string) (*Store, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		language TEXT NOT NULL,
		duration REAL NOT NULL,
		word_count INTEGER NOT NULL,
		speaker_count INTEGER NOT NULL,
		local_path TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, outputDir: outputDir}, nil
}

// Save writes the result JSON to disk and records its metadata.
func (s *Store) Save(jobID, name, source string, result *pipeline.Result) (*Record, error) {
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s.json", jobID))

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return nil, fmt.Errorf("failed to write result file: %w", err)
	}

	rec := &Record{
		JobID:        jobID,
		Name:         name,
		Source:       source,
		Language:     result.Language,
		Duration:     lastSegmentEnd(result),
		WordCount:    len(strings.Fields(result.Text)),
		SpeakerCount: len(result.Speakers),
		LocalPath:    path,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.Exec(`
		INSERT INTO transcripts (job_id, name, source, language, duration, word_count, speaker_count, local_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.JobID, rec.Name, rec.Source, rec.Language, rec.Duration, rec.WordCount, rec.SpeakerCount, rec.LocalPath, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save transcript metadata: %w", err)
	}

	log.Info().
		Str("job_id", jobID).
		Str("file", path).
		Int("word_count", rec.WordCount).
		Int("speakers", rec.SpeakerCount).
		Msg("Saved transcript")

	return rec, nil
}

// Get returns the metadata row for a job.
func (s *Store) Get(jobID string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT job_id, name, source, language, duration, word_count, speaker_count, local_path, created_at
		FROM transcripts WHERE job_id = ?`, jobID)

	var rec Record
	err := row.Scan(&rec.JobID, &rec.Name, &rec.Source, &rec.Language, &rec.Duration,
		&rec.WordCount, &rec.SpeakerCount, &rec.LocalPath, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript %s: %w", jobID, err)
	}
	return &rec, nil
}

// Load reads back a stored result payload.
func (s *Store) Load(jobID string) (*pipeline.Result, error) {
	rec, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(rec.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result pipeline.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result file: %w", err)
	}
	return &result, nil
}

// List returns the most recent records, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT job_id, name, source, language, duration, word_count, speaker_count, local_path, created_at
		FROM transcripts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.JobID, &rec.Name, &rec.Source, &rec.Language, &rec.Duration,
			&rec.WordCount, &rec.SpeakerCount, &rec.LocalPath, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func lastSegmentEnd(result *pipeline.Result) float64 {
	if len(result.Segments) == 0 {
		return 0
	}
	return result.Segments[len(result.Segments)-1].End
}
