package implementation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

func TestCreateScheduleDefaultsToPending(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")

	id, err := repo.CreateSchedule(context.Background(), feedermodels.Schedule{
		ModuleID: "M1",
		FeedTime: "07:30",
		Amount:   50,
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := repo.GetSchedule(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, feedermodels.ScheduleStatusPending, got.Status)
	require.Equal(t, "07:30", got.FeedTime)
	require.Equal(t, 50.0, got.Amount)
}

func TestClaimDueFiresExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")
	id := seedSchedule(t, db, "M1", "08:00", 75)

	disp, err := repo.ClaimDue(context.Background(), "M1", "08:00")
	require.NoError(t, err)
	require.NotNil(t, disp)
	require.Equal(t, id, disp.ScheduleID)
	require.Equal(t, 75.0, disp.Amount)

	got, err := repo.GetSchedule(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, feedermodels.ScheduleStatusDone, got.Status)
	require.Equal(t, 1, countRows(t, db, "history"))

	// second poll in the same minute must not dispense again
	disp, err = repo.ClaimDue(context.Background(), "M1", "08:00")
	require.NoError(t, err)
	require.Nil(t, disp)
	require.Equal(t, 1, countRows(t, db, "history"))
}

func TestClaimDueRequiresExactMinute(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")
	id := seedSchedule(t, db, "M1", "08:00", 40)

	// a poll one minute late never catches up
	disp, err := repo.ClaimDue(context.Background(), "M1", "08:01")
	require.NoError(t, err)
	require.Nil(t, disp)

	disp, err = repo.ClaimDue(context.Background(), "M2", "08:00")
	require.NoError(t, err)
	require.Nil(t, disp)

	got, err := repo.GetSchedule(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, feedermodels.ScheduleStatusPending, got.Status)
	require.Equal(t, 0, countRows(t, db, "history"))
}

func TestClaimDuePicksLowestScheduleID(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")
	first := seedSchedule(t, db, "M1", "09:15", 10)
	second := seedSchedule(t, db, "M1", "09:15", 20)

	disp, err := repo.ClaimDue(context.Background(), "M1", "09:15")
	require.NoError(t, err)
	require.NotNil(t, disp)
	require.Equal(t, first, disp.ScheduleID)

	disp, err = repo.ClaimDue(context.Background(), "M1", "09:15")
	require.NoError(t, err)
	require.NotNil(t, disp)
	require.Equal(t, second, disp.ScheduleID)
}

func TestClaimDueConcurrentPolls(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")
	seedSchedule(t, db, "M1", "12:00", 30)

	const polls = 16
	results := make(chan *feedermodels.Dispense, polls)
	var wg sync.WaitGroup
	for i := 0; i < polls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			disp, err := repo.ClaimDue(context.Background(), "M1", "12:00")
			require.NoError(t, err)
			results <- disp
		}()
	}
	wg.Wait()
	close(results)

	dispensed := 0
	for disp := range results {
		if disp != nil {
			dispensed++
		}
	}
	require.Equal(t, 1, dispensed)
	require.Equal(t, 1, countRows(t, db, "history"))
}

func TestUpdateScheduleRearmsFiredSchedule(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")
	id := seedSchedule(t, db, "M1", "06:00", 25)

	disp, err := repo.ClaimDue(context.Background(), "M1", "06:00")
	require.NoError(t, err)
	require.NotNil(t, disp)

	err = repo.UpdateSchedule(context.Background(), feedermodels.Schedule{
		ScheduleID: id,
		ModuleID:   "M1",
		FeedTime:   "06:00",
		Amount:     25,
		Status:     feedermodels.ScheduleStatusPending,
	})
	require.NoError(t, err)

	disp, err = repo.ClaimDue(context.Background(), "M1", "06:00")
	require.NoError(t, err)
	require.NotNil(t, disp)
	require.Equal(t, 2, countRows(t, db, "history"))
}

func TestDeleteScheduleLeavesHistory(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteScheduleRepository(db)
	seedCamera(t, db, "CAM1")
	seedModule(t, db, "M1", "CAM1")
	id := seedSchedule(t, db, "M1", "10:00", 60)

	disp, err := repo.ClaimDue(context.Background(), "M1", "10:00")
	require.NoError(t, err)
	require.NotNil(t, disp)

	require.NoError(t, repo.DeleteSchedule(context.Background(), id))

	_, err = repo.GetSchedule(context.Background(), id)
	require.Error(t, err)
	// the dispense record survives with a dangling schedule reference
	require.Equal(t, 1, countRows(t, db, "history"))
}
