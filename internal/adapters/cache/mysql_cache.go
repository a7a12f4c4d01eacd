package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_cache (
			cache_key VARCHAR(64) PRIMARY KEY,
			category VARCHAR(128),
			needs_human BOOLEAN,
			summary TEXT,
			suggested_action TEXT,
			model_used VARCHAR(128),
			analyzed_at TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_analysis_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
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
func (c *MySQLCache) Get(ctx context.Context, key string) (*core.AnalysisResult, error) {
	var result core.AnalysisResult

	err := c.db.QueryRowContext(ctx, `
		SELECT category, needs_human, summary, suggested_action, model_used, analyzed_at
		FROM analysis_cache
		WHERE cache_key = ? AND expires_at > NOW()
	`, key).Scan(&result.Category, &result.NeedsHumanAttention, &result.Summary,
		&result.SuggestedAction, &result.ModelUsed, &result.AnalyzedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		c.logger.Error("Failed to query cache", zap.Error(err), zap.String("key", key))
		return nil, err
	}

	return &result, nil
}

// Set stores an analysis result under a content key
func (c *MySQLCache) Set(ctx context.Context, key string, result *core.AnalysisResult, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
		REPLACE INTO analysis_cache
		(cache_key, category, needs_human, summary, suggested_action, model_used, analyzed_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, key, result.Category, result.NeedsHumanAttention, result.Summary,
		result.SuggestedAction, result.ModelUsed, result.AnalyzedAt, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE cache_key = ?`, key)
	return err
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return fmt.Errorf("failed to clean up cache: %w", err)
	}
	if count, err := res.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", count))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MySQLCache) startCleanupTask() {
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
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL connection", zap.Error(err))
	}
}
