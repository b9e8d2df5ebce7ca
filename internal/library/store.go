package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/gate"
	"github.com/ChamsBouzaiene/promptstitch/internal/pipeline"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// ErrQuotaExceeded is returned when a save or generation would pass a tier
// limit.
var ErrQuotaExceeded = errors.New("quota exceeded")

// Store persists prompts and usage counters in SQLite with a bleve
// full-text index alongside.
type Store struct {
	db    *sql.DB
	index *SearchIndex
	sink  events.Sink
}

// NewStore opens (or creates) the library database at dbPath and its
// search index next to it.
func NewStore(ctx context.Context, dbPath string, sink events.Sink) (*Store, error) {
	// WAL mode allows concurrent readers with the single writer.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, sink: sink}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	index, err := NewSearchIndex(dbPath)
	if err != nil {
		return nil, err
	}
	s.index = index

	return s, nil
}

// Close closes the database and the search index.
func (s *Store) Close() error {
	var firstErr error
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS saved_prompts (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		title        TEXT NOT NULL,
		prompt       TEXT NOT NULL,
		input_json   TEXT NOT NULL,
		input_hash   TEXT NOT NULL,
		version_id   TEXT NOT NULL,
		tier         TEXT NOT NULL,
		created_at   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_saved_prompts_user ON saved_prompts(user_id);

	CREATE TABLE IF NOT EXISTS usage (
		user_id    TEXT NOT NULL,
		day        TEXT NOT NULL,
		quota_type TEXT NOT NULL,
		count      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day, quota_type)
	);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	return nil
}

func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Usage returns today's counter for a quota type.
func (s *Store) Usage(ctx context.Context, userID string, kind gate.QuotaKind) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM usage WHERE user_id = ? AND day = ? AND quota_type = ?`,
		userID, day(time.Now()), string(kind)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage: %w", err)
	}
	return count, nil
}

// CheckQuota reports whether the user has remaining quota of this kind.
func (s *Store) CheckQuota(ctx context.Context, userID string, tier schema.Tier, kind gate.QuotaKind) (bool, error) {
	limit := gate.QuotaLimit(tier, kind)
	if limit == gate.Unlimited {
		return true, nil
	}

	var current int
	var err error
	if kind == gate.QuotaSavedPrompts {
		current, err = s.savedCount(ctx, userID)
	} else {
		current, err = s.Usage(ctx, userID, kind)
	}
	if err != nil {
		return false, err
	}
	return current < limit, nil
}

// QuotaStatus reports a user's standing against one tier limit.
func (s *Store) QuotaStatus(ctx context.Context, userID string, tier schema.Tier, kind gate.QuotaKind) (QuotaStatus, error) {
	limit := gate.QuotaLimit(tier, kind)

	var current int
	var err error
	if kind == gate.QuotaSavedPrompts {
		current, err = s.savedCount(ctx, userID)
	} else {
		current, err = s.Usage(ctx, userID, kind)
	}
	if err != nil {
		return QuotaStatus{}, err
	}

	return QuotaStatus{
		UserID:       userID,
		QuotaType:    string(kind),
		CurrentUsage: current,
		Limit:        limit,
		IsUnlimited:  limit == gate.Unlimited,
	}, nil
}

// RecordGeneration increments today's prompts_per_day counter after a
// successful generation.
func (s *Store) RecordGeneration(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage (user_id, day, quota_type, count) VALUES (?, ?, ?, 1)
		ON CONFLICT (user_id, day, quota_type) DO UPDATE SET count = count + 1`,
		userID, day(time.Now()), string(gate.QuotaPromptsPerDay))
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

func (s *Store) savedCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_prompts WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count saved prompts: %w", err)
	}
	return count, nil
}

// Save stores a generated prompt in the user's library, enforcing the
// saved-prompt cap and the tier's maximum prompt length.
func (s *Store) Save(ctx context.Context, userID, title string, out *pipeline.PromptOutput) (*SavedPrompt, error) {
	tier := out.Input.ComplexityTier

	ok, err := s.CheckQuota(ctx, userID, tier, gate.QuotaSavedPrompts)
	if err != nil {
		return nil, err
	}
	if !ok {
		events.Emit(s.sink, events.KindQuotaExceeded, map[string]any{
			"user_id":    userID,
			"quota_type": string(gate.QuotaSavedPrompts),
			"tier":       string(tier),
		})
		return nil, fmt.Errorf("%w: %s for tier %s", ErrQuotaExceeded, gate.QuotaSavedPrompts, tier)
	}

	if limit := gate.QuotaLimit(tier, gate.QuotaMaxPromptLength); limit != gate.Unlimited && len(out.Prompt) > limit {
		events.Emit(s.sink, events.KindQuotaExceeded, map[string]any{
			"user_id":    userID,
			"quota_type": string(gate.QuotaMaxPromptLength),
			"tier":       string(tier),
			"length":     len(out.Prompt),
		})
		return nil, fmt.Errorf("%w: prompt length %d exceeds %d for tier %s", ErrQuotaExceeded, len(out.Prompt), limit, tier)
	}

	inputJSON, err := json.Marshal(out.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input record: %w", err)
	}

	saved := &SavedPrompt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Prompt:    out.Prompt,
		Input:     out.Input,
		Metadata:  out.Metadata,
		Tier:      tier,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_prompts (id, user_id, title, prompt, input_json, input_hash, version_id, tier, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.UserID, saved.Title, saved.Prompt, string(inputJSON),
		saved.Metadata.InputHash, saved.Metadata.VersionID, string(saved.Tier), saved.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert saved prompt: %w", err)
	}

	if err := s.index.Index(saved); err != nil {
		return nil, fmt.Errorf("failed to index saved prompt: %w", err)
	}

	return saved, nil
}

// Get loads a saved prompt by id.
func (s *Store) Get(ctx context.Context, id string) (*SavedPrompt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, prompt, input_json, version_id, tier, created_at
		FROM saved_prompts WHERE id = ?`, id)

	var saved SavedPrompt
	var inputJSON string
	var createdAt int64
	var tier string
	if err := row.Scan(&saved.ID, &saved.UserID, &saved.Title, &saved.Prompt, &inputJSON, &saved.Metadata.VersionID, &tier, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to load saved prompt: %w", err)
	}
	if err := json.Unmarshal([]byte(inputJSON), &saved.Input); err != nil {
		return nil, fmt.Errorf("failed to parse input record: %w", err)
	}
	saved.Tier = schema.Tier(tier)
	saved.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &saved, nil
}

// List returns the user's saved prompts, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]SavedPrompt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, prompt, input_json, version_id, tier, created_at
		FROM saved_prompts WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved prompts: %w", err)
	}
	defer rows.Close()

	var out []SavedPrompt
	for rows.Next() {
		var saved SavedPrompt
		var inputJSON string
		var createdAt int64
		var tier string
		if err := rows.Scan(&saved.ID, &saved.UserID, &saved.Title, &saved.Prompt, &inputJSON, &saved.Metadata.VersionID, &tier, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved prompt: %w", err)
		}
		if err := json.Unmarshal([]byte(inputJSON), &saved.Input); err != nil {
			continue // Skip unreadable rows
		}
		saved.Tier = schema.Tier(tier)
		saved.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, saved)
	}
	return out, rows.Err()
}

// Delete removes a saved prompt from the store and the index.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saved_prompts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete saved prompt: %w", err)
	}
	return s.index.Delete(id)
}

// Search runs a full-text query over the user's library.
func (s *Store) Search(query, userID string, k int) ([]SearchResult, error) {
	return s.index.Search(query, userID, k)
}
