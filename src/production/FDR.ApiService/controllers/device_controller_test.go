package controllers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.ApiService/health"
	"gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.ApiService/storage"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
	implementation "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Implementation"
)

type testEnv struct {
	router  *gin.Engine
	db      *sql.DB
	devices *DeviceController
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "feeder.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, health.NewDatabaseManager(db).CreateTables(context.Background()))

	log := logger.GetGlobalLogger()
	cameraRepo := implementation.NewSqliteCameraRepository(db)
	moduleRepo := implementation.NewSqliteModuleRepository(db)
	scheduleRepo := implementation.NewSqliteScheduleRepository(db)
	historyRepo := implementation.NewSqliteHistoryRepository(db)
	images := storage.NewImageStore(filepath.Join(t.TempDir(), "images"))

	devices := NewDeviceController(scheduleRepo, moduleRepo, images, log)

	router := gin.New()
	devices.RegisterRoutes(router)
	NewCameraController(cameraRepo, log).RegisterRoutes(router)
	NewModuleController(moduleRepo, log).RegisterRoutes(router)
	NewScheduleController(scheduleRepo, log).RegisterRoutes(router)
	NewHistoryController(historyRepo, log).RegisterRoutes(router)

	return &testEnv{router: router, db: db, devices: devices}
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postJSON(t *testing.T, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, http.MethodPost, target, body, "application/json")
}

func (e *testEnv) putJSON(t *testing.T, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, http.MethodPut, target, body, "application/json")
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, target, []byte(form.Encode()), "application/x-www-form-urlencoded")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (e *testEnv) seedSchedule(t *testing.T, moduleID, feedTime string, amount float64) int64 {
	t.Helper()
	repo := implementation.NewSqliteScheduleRepository(e.db)
	require.NoError(t, implementation.NewSqliteCameraRepository(e.db).CreateCamera(context.Background(), feedermodels.Camera{CamID: "CAM1", Status: "online"}))
	require.NoError(t, implementation.NewSqliteModuleRepository(e.db).CreateModule(context.Background(), feedermodels.Module{ModuleID: moduleID, CamID: "CAM1", Status: "active"}))
	id, err := repo.CreateSchedule(context.Background(), feedermodels.Schedule{ModuleID: moduleID, FeedTime: feedTime, Amount: amount})
	require.NoError(t, err)
	return id
}

func TestHealthProbeAnswersFixedString(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mDNS OK", rec.Body.String())
}

func TestCheckScheduleDispensesOnceInMatchingMinute(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedSchedule(t, "FEEDER1", "08:00", 75)
	env.devices.now = func() time.Time {
		return time.Date(2026, 8, 29, 8, 0, 42, 0, time.UTC)
	}

	rec := env.do(t, http.MethodGet, "/check_sched?device_id=FEEDER1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["dispense"])
	require.Equal(t, 75.0, body["amount"])
	require.Equal(t, float64(id), body["schedule_id"])

	// same minute, second poll: already fired
	rec = env.do(t, http.MethodGet, "/check_sched?device_id=FEEDER1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["dispense"])
}

func TestCheckScheduleOutsideMinute(t *testing.T) {
	env := newTestEnv(t)
	env.seedSchedule(t, "FEEDER1", "08:00", 75)
	env.devices.now = func() time.Time {
		return time.Date(2026, 8, 29, 8, 1, 0, 0, time.UTC)
	}

	rec := env.do(t, http.MethodGet, "/check_sched?device_id=FEEDER1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["dispense"])
}

func TestCheckScheduleMissingDeviceID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/check_sched", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing device_id", decodeBody(t, rec)["error"])
}

func TestWeightUpdateProvisionsAndUpdates(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/weight_update", url.Values{
		"device_id": {"FEEDER1"},
		"weight":    {"120.5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Contains(t, body["message"], "FEEDER1")
	require.Contains(t, body["message"], "120.5g")

	module, err := implementation.NewSqliteModuleRepository(env.db).GetModule(context.Background(), "FEEDER1")
	require.NoError(t, err)
	require.Equal(t, implementation.DefaultCamID, module.CamID)
	require.NotNil(t, module.Weight)
	require.Equal(t, 120.5, *module.Weight)

	rec = env.postForm(t, "/weight_update", url.Values{
		"device_id": {"FEEDER1"},
		"weight":    {"118"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	module, err = implementation.NewSqliteModuleRepository(env.db).GetModule(context.Background(), "FEEDER1")
	require.NoError(t, err)
	require.Equal(t, 118.0, *module.Weight)
}

func TestWeightUpdateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/weight_update", url.Values{"device_id": {"FEEDER1"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing device_id or weight", decodeBody(t, rec)["error"])

	rec = env.postForm(t, "/weight_update", url.Values{"weight": {"42"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.postForm(t, "/weight_update", url.Values{
		"device_id": {"FEEDER1"},
		"weight":    {"heavy"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "weight must be numeric", decodeBody(t, rec)["error"])
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	payload := []byte("jpeg-bytes")

	rec := env.do(t, http.MethodPost, "/upload_image", payload, "image/jpeg")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(len(payload)), body["size"])
	filename, ok := body["filename"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(filename, "cam_"))
	require.True(t, strings.HasSuffix(filename, ".jpg"))
}

func TestUploadImageRejectsEmptyBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/upload_image", nil, "image/jpeg")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No image data", decodeBody(t, rec)["error"])
}
