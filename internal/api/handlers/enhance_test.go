package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/analyzer"
	"resumatch/internal/artifacts"
	"resumatch/internal/background"
	"resumatch/pkg/models"
)

func enhanceFixture(t *testing.T) (*background.Pipeline, *artifacts.MemoryStore, *models.Report) {
	t.Helper()

	cfg := handlerConfig()
	cfg.Workers.PoolSize = 2
	cfg.Workers.QueueSize = 16
	cfg.BackgroundTasks.TaskTimeout = 5 * time.Second
	cfg.BackgroundTasks.CleanupInterval = time.Hour
	cfg.BackgroundTasks.MaxJobAge = 24 * time.Hour

	coordinator := analyzer.New(cfg, nil)
	report, err := coordinator.Analyze(context.Background(), "res-1",
		[]byte(handlerResume), "text/plain", handlerPosting)
	require.NoError(t, err)

	store := artifacts.NewMemoryStore()
	pipeline := background.NewPipeline(cfg, coordinator.Store(), background.NewInMemoryJobStore(), store)
	require.NoError(t, pipeline.Start(context.Background()))
	t.Cleanup(func() { pipeline.Stop() })

	return pipeline, store, report
}

func getWithParam(t *testing.T, handler echo.HandlerFunc, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, handler(c))
	return rec
}

func TestEnhanceHandler_AcceptsJob(t *testing.T) {
	pipeline, _, report := enhanceFixture(t)

	rec := postJSON(t, EnhanceHandler(pipeline), "/api/v1/enhance", models.EnhanceRequest{
		ResumeID: report.ResumeID,
		JobID:    report.JobID,
		ReportID: report.ID,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.EnhanceJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, models.JobStatusPending, resp.Status)
}

func TestEnhanceHandler_DuplicateReturnsExistingJob(t *testing.T) {
	pipeline, _, report := enhanceFixture(t)
	payload := models.EnhanceRequest{
		ResumeID: report.ResumeID,
		JobID:    report.JobID,
		ReportID: report.ID,
	}

	first := postJSON(t, EnhanceHandler(pipeline), "/api/v1/enhance", payload)
	require.Equal(t, http.StatusAccepted, first.Code)
	var created models.EnhanceJobResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))

	second := postJSON(t, EnhanceHandler(pipeline), "/api/v1/enhance", payload)
	require.Equal(t, http.StatusOK, second.Code)
	var existing models.EnhanceJobStatusResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &existing))
	assert.Equal(t, created.JobID, existing.JobID)
}

func TestEnhanceHandler_UnknownReportRejected(t *testing.T) {
	pipeline, _, _ := enhanceFixture(t)

	rec := postJSON(t, EnhanceHandler(pipeline), "/api/v1/enhance", models.EnhanceRequest{
		ResumeID: "res-1", JobID: "job-1", ReportID: "rpt_missing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnhanceStatusAndArtifact(t *testing.T) {
	pipeline, store, report := enhanceFixture(t)

	rec := postJSON(t, EnhanceHandler(pipeline), "/api/v1/enhance", models.EnhanceRequest{
		ResumeID: report.ResumeID,
		JobID:    report.JobID,
		ReportID: report.ID,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var created models.EnhanceJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	statusHandler := EnhanceStatusHandler(pipeline)
	var status models.EnhanceJobStatusResponse
	require.Eventually(t, func() bool {
		statusRec := getWithParam(t, statusHandler, created.JobID)
		if statusRec.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))
		return status.Status == models.JobStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)

	assert.NotEmpty(t, status.ResultArtifactRef)

	artifactRec := getWithParam(t, EnhanceArtifactHandler(pipeline, store), created.JobID)
	require.Equal(t, http.StatusOK, artifactRec.Code)
	assert.Contains(t, artifactRec.Body.String(), "Docker")
}

func TestEnhanceStatusHandler_UnknownJob(t *testing.T) {
	pipeline, _, _ := enhanceFixture(t)

	rec := getWithParam(t, EnhanceStatusHandler(pipeline), "enh_missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnhanceCancelHandler_UnknownJob(t *testing.T) {
	pipeline, _, _ := enhanceFixture(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("enh_missing")
	require.NoError(t, EnhanceCancelHandler(pipeline)(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnhanceListHandler(t *testing.T) {
	pipeline, _, report := enhanceFixture(t)

	postJSON(t, EnhanceHandler(pipeline), "/api/v1/enhance", models.EnhanceRequest{
		ResumeID: report.ResumeID,
		JobID:    report.JobID,
		ReportID: report.ID,
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, EnhanceListHandler(pipeline)(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.EnhanceJobListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
}
