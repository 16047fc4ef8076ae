package transcriptcache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"podsubs/internal/transcript"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. Older databases must be
// cleared with 'podsubs cache clear' or deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Entry is one cached transcript.
type Entry struct {
	Key          string
	Source       string
	TranscriptID string
	LanguageCode string
	WordCount    int
	DurationMs   int64
	CreatedAt    time.Time
	// Words is only populated by Get.
	Words []transcript.Word
}

// Transcript rebuilds the cached transcript.
func (e Entry) Transcript() transcript.Transcript {
	return transcript.Transcript{ID: e.TranscriptID, LanguageCode: e.LanguageCode, Words: e.Words}
}

// Store manages the transcript cache database.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("transcript cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached entry for key, including its words.
func (s *Store) Get(ctx context.Context, key string) (Entry, bool, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+`, words_json FROM transcripts WHERE cache_key = ?`, key)
	var wordsJSON string
	entry, err := scanEntry(row, &wordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	words, err := transcript.ReadWords(strings.NewReader(wordsJSON))
	if err != nil {
		return Entry{}, false, fmt.Errorf("decode cached words for %s: %w", key, err)
	}
	entry.Words = words
	return entry, true, nil
}

// Put stores or replaces the entry for entry.Key.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Key) == "" {
		return errors.New("transcript cache key is empty")
	}
	words := entry.Words
	if words == nil {
		words = []transcript.Word{}
	}
	payload, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("encode words: %w", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	duration := transcript.Transcript{Words: words}.DurationMs()
	return s.execWithoutResultRetry(ctx,
		`INSERT INTO transcripts (cache_key, source, transcript_id, language_code, word_count, duration_ms, words_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   source = excluded.source,
		   transcript_id = excluded.transcript_id,
		   language_code = excluded.language_code,
		   word_count = excluded.word_count,
		   duration_ms = excluded.duration_ms,
		   words_json = excluded.words_json,
		   created_at = excluded.created_at`,
		entry.Key,
		entry.Source,
		nullableString(entry.TranscriptID),
		nullableString(entry.LanguageCode),
		len(words),
		duration,
		string(payload),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
}

// List returns all entries, newest first, without their words.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM transcripts ORDER BY created_at DESC, cache_key`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows, nil)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry for key and reports whether one existed.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM transcripts WHERE cache_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("delete transcript: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	return res.RowsAffected()
}

const entryColumns = "cache_key, source, transcript_id, language_code, word_count, duration_ms, created_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }, wordsJSON *string) (Entry, error) {
	var (
		entry        Entry
		transcriptID sql.NullString
		languageCode sql.NullString
		createdRaw   string
	)
	dest := []any{&entry.Key, &entry.Source, &transcriptID, &languageCode, &entry.WordCount, &entry.DurationMs, &createdRaw}
	if wordsJSON != nil {
		dest = append(dest, wordsJSON)
	}
	if err := scanner.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan transcript: %w", err)
	}
	entry.TranscriptID = transcriptID.String
	entry.LanguageCode = languageCode.String
	created, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	entry.CreatedAt = created
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
