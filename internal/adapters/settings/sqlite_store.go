package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the SettingsRepository interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite settings store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			profile TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Get retrieves the settings stored for a profile
func (s *SQLiteStore) Get(ctx context.Context, profile string) (*core.Settings, error) {
	var document string

	err := s.db.QueryRowContext(ctx, `
		SELECT document
		FROM user_settings
		WHERE profile = ?
	`, profile).Scan(&document)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	return decodeSettings([]byte(document))
}

// Save stores the settings for a profile
func (s *SQLiteStore) Save(ctx context.Context, profile string, settings *core.Settings) error {
	document, err := encodeSettings(settings)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_settings (profile, document, updated_at)
		VALUES (?, ?, ?)
	`, profile, string(document), time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Debug("Stored settings in SQLite", zap.String("profile", profile))
	return nil
}

// Delete removes the settings stored for a profile
func (s *SQLiteStore) Delete(ctx context.Context, profile string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_settings
		WHERE profile = ?
	`, profile)

	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	return nil
}

// Stop closes the database connection
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
