package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

func newFastClient(baseURL string) *APIClient {
	c := NewAPIClient(baseURL)
	c.retryDelay = time.Millisecond
	return c
}

func TestReportWeightPostsForm(t *testing.T) {
	var gotDeviceID, gotWeight, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/weight_update", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotDeviceID = r.PostForm.Get("device_id")
		gotWeight = r.PostForm.Get("weight")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := newFastClient(srv.URL)
	err := c.ReportWeight(context.Background(), feedermodels.WeightReport{
		DeviceID: "FEEDER1",
		Weight:   120.5,
	})
	require.NoError(t, err)
	require.Equal(t, "FEEDER1", gotDeviceID)
	require.Equal(t, "120.5", gotWeight)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestReportWeightRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := newFastClient(srv.URL)
	err := c.ReportWeight(context.Background(), feedermodels.WeightReport{DeviceID: "FEEDER1", Weight: 10})
	require.NoError(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
	require.Equal(t, "closed", c.GetCircuitBreakerStatus()["state"])
}

func TestReportWeightSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "Missing device_id or weight"}`))
	}))
	defer srv.Close()

	c := newFastClient(srv.URL)
	err := c.ReportWeight(context.Background(), feedermodels.WeightReport{Weight: 10})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Missing device_id or weight")
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newFastClient(srv.URL)
	c.circuitBreaker.maxFailures = 3

	err := c.ReportWeight(context.Background(), feedermodels.WeightReport{DeviceID: "FEEDER1", Weight: 10})
	require.Error(t, err)
	require.Equal(t, "open", c.GetCircuitBreakerStatus()["state"])

	// while open, calls fail fast without reaching the server
	err = c.ReportWeight(context.Background(), feedermodels.WeightReport{DeviceID: "FEEDER1", Weight: 10})
	require.Error(t, err)
	require.Contains(t, err.Error(), "circuit breaker is open")
}

func TestCircuitBreakerRecoversAfterReset(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := newFastClient(srv.URL)
	c.circuitBreaker.maxFailures = 2
	c.circuitBreaker.resetTimeout = 10 * time.Millisecond

	err := c.ReportWeight(context.Background(), feedermodels.WeightReport{DeviceID: "FEEDER1", Weight: 10})
	require.Error(t, err)
	require.Equal(t, "open", c.GetCircuitBreakerStatus()["state"])

	healthy.Store(true)
	time.Sleep(20 * time.Millisecond)

	err = c.ReportWeight(context.Background(), feedermodels.WeightReport{DeviceID: "FEEDER1", Weight: 10})
	require.NoError(t, err)
	require.Equal(t, "closed", c.GetCircuitBreakerStatus()["state"])
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health/live", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	require.NoError(t, newFastClient(srv.URL).Health(context.Background()))
}
