package health

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	config "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Config"
)

// HealthChecker provides health check functionality
type HealthChecker struct {
	db *sql.DB
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// PingDatabase checks if the SQLite connection is healthy
func (h *HealthChecker) PingDatabase(ctx context.Context) error {
	if h.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return h.db.PingContext(ctx)
}

// CheckDatabaseHealth performs a comprehensive database health check
func (h *HealthChecker) CheckDatabaseHealth(ctx context.Context) error {
	if err := h.PingDatabase(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Check if we can execute a simple query
	var result int
	err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}

	return nil
}

// GetHealthStatus returns the current health status
func (h *HealthChecker) GetHealthStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    make(map[string]interface{}),
	}

	// Check database
	dbStatus := "ok"
	if err := h.CheckDatabaseHealth(ctx); err != nil {
		dbStatus = "error"
		status["checks"].(map[string]interface{})["sqlite"] = map[string]interface{}{
			"status": dbStatus,
			"error":  err.Error(),
		}
	} else {
		status["checks"].(map[string]interface{})["sqlite"] = map[string]interface{}{
			"status": dbStatus,
		}
	}

	// Overall status
	overallStatus := "ok"
	if dbStatus != "ok" {
		overallStatus = "degraded"
	}
	status["status"] = overallStatus

	return status
}

// DatabaseManager handles database operations
type DatabaseManager struct {
	db *sql.DB
}

// NewDatabaseManager creates a new database manager
func NewDatabaseManager(db *sql.DB) *DatabaseManager {
	return &DatabaseManager{db: db}
}

// ConnectSqliteWithTimeout opens the SQLite database file with a
// timeout context, creating the containing directory if needed.
// Foreign keys stay unenforced on purpose: deletes never cascade and a
// dangling reference is a documented condition, not an error.
func ConnectSqliteWithTimeout(cfg *config.Config, timeout time.Duration) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping SQLite database: %w", err)
	}

	// SQLite has a single writer; cap the pool so writes from
	// concurrent handlers queue on the driver instead of surfacing
	// busy errors.
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MaxConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// CreateTables creates the required tables if they don't exist
func (dm *DatabaseManager) CreateTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Create camera table
	createCameraTable := `
		CREATE TABLE IF NOT EXISTS camera (
			cam_id  TEXT PRIMARY KEY,
			status  TEXT NOT NULL
		);
	`

	// Create modules table
	createModulesTable := `
		CREATE TABLE IF NOT EXISTS modules (
			module_id  TEXT PRIMARY KEY,
			cam_id     TEXT NOT NULL,
			status     TEXT NOT NULL,
			weight     REAL,
			FOREIGN KEY (cam_id) REFERENCES camera(cam_id)
		);
	`

	// Create schedules table
	createSchedulesTable := `
		CREATE TABLE IF NOT EXISTS schedules (
			schedule_id  INTEGER PRIMARY KEY AUTOINCREMENT,
			module_id    TEXT NOT NULL,
			feed_time    TEXT NOT NULL,
			amount       REAL NOT NULL,
			status       TEXT DEFAULT 'pending' CHECK(status IN ('pending', 'done')),
			FOREIGN KEY (module_id) REFERENCES modules(module_id)
		);
	`

	// Create history table
	createHistoryTable := `
		CREATE TABLE IF NOT EXISTS history (
			history_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_id  INTEGER,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (schedule_id) REFERENCES schedules(schedule_id)
		);
	`

	// Create indexes
	createIndexes := `
		CREATE INDEX IF NOT EXISTS idx_schedules_module_time_status ON schedules (module_id, feed_time, status);
		CREATE INDEX IF NOT EXISTS idx_history_created_at ON history (created_at DESC);
	`

	queries := []string{
		createCameraTable,
		createModulesTable,
		createSchedulesTable,
		createHistoryTable,
		createIndexes,
	}

	for _, query := range queries {
		if _, err := dm.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (dm *DatabaseManager) Close() error {
	if dm.db != nil {
		return dm.db.Close()
	}
	return nil
}
