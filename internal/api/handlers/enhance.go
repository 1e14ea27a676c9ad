package handlers

import (
	"errors"
	"net/http"
	"time"

	"resumatch/internal/artifacts"
	"resumatch/internal/background"
	"resumatch/internal/logging"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"

	"github.com/labstack/echo/v4"
)

// EnhanceHandler starts an asynchronous enhancement job for a completed
// analysis. Repeated submissions for the same resume/job pair return the
// existing job instead of starting a duplicate.
func EnhanceHandler(pipeline *background.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Enhance request received")

		var req models.EnhanceRequest
		if err := c.Bind(&req); err != nil {
			logger.WithField("error", err.Error()).Error("Failed to bind request")
			bindErr := utils.NewBadRequestError("Invalid request format")
			return c.JSON(bindErr.Code, models.CreateAsyncErrorResponse(
				bindErr.ErrorCode, bindErr.Message))
		}

		if err := validate.Struct(&req); err != nil {
			logger.WithField("error", err.Error()).Error("Request validation failed")
			validationErr := utils.NewValidationError(err.Error())
			return c.JSON(validationErr.Code, models.CreateAsyncErrorResponse(
				validationErr.ErrorCode, validationErr.Error()))
		}

		record, existing, err := pipeline.Submit(c.Request().Context(), req)
		if err != nil {
			var customErr *utils.CustomError
			if errors.As(err, &customErr) {
				return c.JSON(customErr.Code, models.CreateAsyncErrorResponse(
					customErr.ErrorCode, customErr.Message))
			}
			if errors.Is(err, background.ErrQueueFull) {
				return c.JSON(http.StatusServiceUnavailable, models.CreateAsyncErrorResponse(
					"queue_full", "Enhancement queue is full, try again later"))
			}
			logger.WithField("error", err.Error()).Error("Failed to submit enhancement job")
			internalErr := utils.NewInternalServerError("Failed to submit enhancement job")
			return c.JSON(internalErr.Code, models.CreateAsyncErrorResponse(
				internalErr.ErrorCode, internalErr.Message))
		}

		if existing {
			logger.WithFields(map[string]interface{}{
				"job_id": record.ID,
				"status": string(record.Status),
			}).Info("Returning existing enhancement job")
			return c.JSON(http.StatusOK, jobStatusResponse(record))
		}

		logger.WithField("job_id", record.ID).Info("Enhancement job accepted")
		return c.JSON(http.StatusAccepted, models.CreateEnhanceJobResponse(
			record.ID, record.Status, "Enhancement job accepted for processing"))
	}
}

// EnhanceStatusHandler returns the current state of an enhancement job
func EnhanceStatusHandler(pipeline *background.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("id")

		record, err := pipeline.GetJob(c.Request().Context(), jobID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.CreateAsyncErrorResponse(
				"job_not_found", "No enhancement job with that id", jobID))
		}

		return c.JSON(http.StatusOK, jobStatusResponse(record))
	}
}

// EnhanceListHandler returns all known enhancement jobs
func EnhanceListHandler(pipeline *background.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		records, err := pipeline.ListJobs(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.CreateAsyncErrorResponse(
				"list_failed", "Failed to list enhancement jobs"))
		}

		jobs := make([]models.EnhanceJobStatusResponse, 0, len(records))
		for _, record := range records {
			jobs = append(jobs, *jobStatusResponse(record))
		}

		return c.JSON(http.StatusOK, models.EnhanceJobListResponse{
			Success: true,
			Jobs:    jobs,
			Count:   len(jobs),
		})
	}
}

// EnhanceCancelHandler aborts a pending or running enhancement job
func EnhanceCancelHandler(pipeline *background.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("id")
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		record, err := pipeline.Cancel(c.Request().Context(), jobID)
		if err != nil {
			var customErr *utils.CustomError
			if errors.As(err, &customErr) {
				return c.JSON(customErr.Code, models.CreateAsyncErrorResponse(
					customErr.ErrorCode, customErr.Message, jobID))
			}
			return c.JSON(http.StatusNotFound, models.CreateAsyncErrorResponse(
				"job_not_found", "No enhancement job with that id", jobID))
		}

		logger.WithField("job_id", jobID).Info("Enhancement job cancellation requested")
		return c.JSON(http.StatusOK, map[string]interface{}{
			"job_id":    record.ID,
			"message":   "Cancellation requested",
			"timestamp": time.Now(),
		})
	}
}

// EnhanceArtifactHandler serves the rewritten resume produced by a
// completed job
func EnhanceArtifactHandler(pipeline *background.Pipeline, store artifacts.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("id")

		record, err := pipeline.GetJob(c.Request().Context(), jobID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.CreateAsyncErrorResponse(
				"job_not_found", "No enhancement job with that id", jobID))
		}
		if record.Status != models.JobStatusCompleted || record.ResultArtifactRef == "" {
			return c.JSON(http.StatusConflict, models.CreateAsyncErrorResponse(
				"artifact_not_ready", "Job has not produced an artifact", jobID))
		}

		data, err := store.Get(c.Request().Context(), record.ResultArtifactRef)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.CreateAsyncErrorResponse(
				"artifact_unavailable", "Failed to load artifact", jobID))
		}

		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, data)
	}
}

func jobStatusResponse(record *background.JobRecord) *models.EnhanceJobStatusResponse {
	resp := &models.EnhanceJobStatusResponse{
		JobID:             record.ID,
		ReportID:          record.ReportID,
		Status:            record.Status,
		ResultArtifactRef: record.ResultArtifactRef,
		Error:             record.Error,
		ErrorCode:         record.ErrorCode,
		CreatedAt:         record.CreatedAt,
		CompletedAt:       record.CompletedAt,
	}
	if record.ProcessingTime != nil {
		resp.ProcessingTime = utils.FormatDuration(*record.ProcessingTime)
	}
	return resp
}
