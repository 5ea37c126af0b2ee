package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the SettingsRepository interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL settings store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			profile VARCHAR(255) PRIMARY KEY,
			document JSON NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// Get retrieves the settings stored for a profile
func (s *MySQLStore) Get(ctx context.Context, profile string) (*core.Settings, error) {
	var document []byte

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

	return decodeSettings(document)
}

// Save stores the settings for a profile
func (s *MySQLStore) Save(ctx context.Context, profile string, settings *core.Settings) error {
	document, err := encodeSettings(settings)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_settings (profile, document, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			document = VALUES(document),
			updated_at = VALUES(updated_at)
	`, profile, string(document), time.Now().UTC().Format("2006-01-02 15:04:05"))

	if err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Debug("Stored settings in MySQL", zap.String("profile", profile))
	return nil
}

// Delete removes the settings stored for a profile
func (s *MySQLStore) Delete(ctx context.Context, profile string) error {
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
func (s *MySQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
