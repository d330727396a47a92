package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"entradalert/internal/common"
	"entradalert/internal/config"
	"entradalert/internal/detect"
	"entradalert/internal/monitor"
)

// Store persists target states and check history in sqlite so a restart
// resumes from the last known states instead of re-announcing everything.
type Store struct {
	db            *sql.DB
	logger        zerolog.Logger
	retentionDays int
}

// NewStore opens (or creates) the database and ensures the schema.
func NewStore(cfg config.StorageConfig, logger zerolog.Logger) (*Store, error) {
	log := logger.With().Str("component", "Datastore").Logger()

	dbDir := filepath.Dir(cfg.SQLiteDBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, common.WrapErrorf(err, "failed to create database directory %s", dbDir)
	}

	db, err := sql.Open("sqlite", cfg.SQLiteDBPath)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to open database %s", cfg.SQLiteDBPath)
	}

	store := &Store{
		db:            db,
		logger:        log,
		retentionDays: cfg.HistoryRetentionDays,
	}
	if err := store.initSchema(); err != nil {
		store.Close()
		return nil, common.WrapError(err, "failed to initialize database schema")
	}

	log.Info().Str("db_path", cfg.SQLiteDBPath).Msg("Datastore initialized")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS target_state (
		url TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		raw_status TEXT NOT NULL,
		dates TEXT,
		title TEXT,
		last_checked_at DATETIME,
		last_error TEXT
	);
	CREATE TABLE IF NOT EXISTS check_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		raw_status TEXT NOT NULL,
		dates TEXT,
		checked_at DATETIME NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_check_history_url_time ON check_history (url, checked_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// SaveState upserts the latest state for a target.
func (s *Store) SaveState(ctx context.Context, state monitor.TargetState) error {
	dates, err := json.Marshal(state.Dates)
	if err != nil {
		return common.WrapError(err, "failed to encode dates")
	}

	query := `
	INSERT INTO target_state (url, status, raw_status, dates, title, last_checked_at, last_error)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status = excluded.status,
		raw_status = excluded.raw_status,
		dates = excluded.dates,
		title = excluded.title,
		last_checked_at = excluded.last_checked_at,
		last_error = excluded.last_error
	`
	_, err = s.db.ExecContext(ctx, query,
		state.URL, string(state.Status), string(state.RawStatus), string(dates),
		state.Title, state.LastCheckedAt, nullableString(state.LastError))
	if err != nil {
		return common.WrapErrorf(err, "failed to save state for %s", state.URL)
	}
	return nil
}

// LoadStates returns every persisted target state.
func (s *Store) LoadStates(ctx context.Context) ([]monitor.TargetState, error) {
	query := `SELECT url, status, raw_status, dates, title, last_checked_at, last_error FROM target_state`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.WrapError(err, "failed to load target states")
	}
	defer rows.Close()

	var states []monitor.TargetState
	for rows.Next() {
		var state monitor.TargetState
		var status, rawStatus string
		var dates sql.NullString
		var title sql.NullString
		var checkedAt sql.NullTime
		var lastError sql.NullString

		if err := rows.Scan(&state.URL, &status, &rawStatus, &dates, &title, &checkedAt, &lastError); err != nil {
			return nil, common.WrapError(err, "failed to scan target state row")
		}

		state.Status = detect.CollapsedStatus(status)
		state.RawStatus = detect.AvailabilityStatus(rawStatus)
		state.Title = title.String
		state.LastError = lastError.String
		if checkedAt.Valid {
			state.LastCheckedAt = checkedAt.Time
		}
		if dates.Valid && dates.String != "" {
			if err := json.Unmarshal([]byte(dates.String), &state.Dates); err != nil {
				s.logger.Warn().Err(err).Str("url", state.URL).Msg("Discarding unreadable dates column")
			}
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

// RecordCheck appends one check observation to the history.
func (s *Store) RecordCheck(ctx context.Context, state monitor.TargetState) error {
	dates, err := json.Marshal(state.Dates)
	if err != nil {
		return common.WrapError(err, "failed to encode dates")
	}

	query := `INSERT INTO check_history (url, status, raw_status, dates, checked_at, error) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		state.URL, string(state.Status), string(state.RawStatus), string(dates),
		state.LastCheckedAt, nullableString(state.LastError))
	if err != nil {
		return common.WrapErrorf(err, "failed to record check for %s", state.URL)
	}
	return nil
}

// PruneHistory deletes history rows older than the retention window and
// returns how many were removed. Retention 0 keeps everything.
func (s *Store) PruneHistory(ctx context.Context) (int64, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	result, err := s.db.ExecContext(ctx, `DELETE FROM check_history WHERE checked_at < ?`, cutoff)
	if err != nil {
		return 0, common.WrapError(err, "failed to prune check history")
	}
	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		s.logger.Info().Int64("pruned", pruned).Msg("Pruned old check history")
	}
	return pruned, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
