package implementation

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.ApiService/health"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

// openTestDB opens a throwaway SQLite database with the service schema
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feeder.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, health.NewDatabaseManager(db).CreateTables(context.Background()))
	return db
}

func seedCamera(t *testing.T, db *sql.DB, camID string) {
	t.Helper()
	err := NewSqliteCameraRepository(db).CreateCamera(context.Background(), feedermodels.Camera{
		CamID:  camID,
		Status: "online",
	})
	require.NoError(t, err)
}

func seedModule(t *testing.T, db *sql.DB, moduleID, camID string) {
	t.Helper()
	err := NewSqliteModuleRepository(db).CreateModule(context.Background(), feedermodels.Module{
		ModuleID: moduleID,
		CamID:    camID,
		Status:   "active",
	})
	require.NoError(t, err)
}

func seedSchedule(t *testing.T, db *sql.DB, moduleID, feedTime string, amount float64) int64 {
	t.Helper()
	id, err := NewSqliteScheduleRepository(db).CreateSchedule(context.Background(), feedermodels.Schedule{
		ModuleID: moduleID,
		FeedTime: feedTime,
		Amount:   amount,
	})
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
