package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

// SQLiteCache is a SQLite implementation of the CacheRepository interface
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_cache (
			cache_key TEXT PRIMARY KEY,
			category TEXT,
			needs_human BOOLEAN,
			summary TEXT,
			suggested_action TEXT,
			model_used TEXT,
			analyzed_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_analysis_expires_at ON analysis_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached result for a content key
func (c *SQLiteCache) Get(ctx context.Context, key string) (*core.AnalysisResult, error) {
	var result core.AnalysisResult
	var analyzedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT category, needs_human, summary, suggested_action, model_used, analyzed_at
		FROM analysis_cache
		WHERE cache_key = ? AND expires_at > datetime('now')
	`, key).Scan(&result.Category, &result.NeedsHumanAttention, &result.Summary,
		&result.SuggestedAction, &result.ModelUsed, &analyzedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		c.logger.Error("Failed to query cache", zap.Error(err), zap.String("key", key))
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, analyzedAt); err == nil {
		result.AnalyzedAt = t
	}

	return &result, nil
}

// Set stores an analysis result under a content key
func (c *SQLiteCache) Set(ctx context.Context, key string, result *core.AnalysisResult, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_cache
		(cache_key, category, needs_human, summary, suggested_action, model_used, analyzed_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, key, result.Category, result.NeedsHumanAttention, result.Summary,
		result.SuggestedAction, result.ModelUsed,
		result.AnalyzedAt.Format(time.RFC3339),
		time.Now().Add(ttl).Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE cache_key = ?`, key)
	return err
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at <= datetime('now')`)
	if err != nil {
		return fmt.Errorf("failed to clean up cache: %w", err)
	}
	if count, err := res.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", count))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
