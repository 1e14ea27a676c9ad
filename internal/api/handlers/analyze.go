package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"resumatch/internal/analyzer"
	"resumatch/internal/config"
	"resumatch/internal/logging"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// AnalyzeHandler scores a resume against a job posting. The endpoint accepts
// either a JSON body with base64 resume data or a multipart upload with a
// "resume" file part and a "job" JSON field.
func AnalyzeHandler(cfg *config.Config, coordinator *analyzer.Coordinator) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Analyze request received")

		req, err := bindAnalyzeRequest(c, cfg)
		if err != nil {
			logger.WithField("error", err.Error()).Error("Failed to bind request")
			bindErr := utils.NewBadRequestError(err.Error())
			return c.JSON(bindErr.Code, models.ErrorResponse{
				Error:     bindErr.ErrorCode,
				Message:   bindErr.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(req); err != nil {
			logger.WithField("error", err.Error()).Error("Request validation failed")
			validationErr := utils.NewValidationError(err.Error())
			return c.JSON(validationErr.Code, models.ErrorResponse{
				Error:     validationErr.ErrorCode,
				Message:   validationErr.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()
		report, err := coordinator.Analyze(ctx, req.ResumeID, req.ResumeData, req.MimeType, req.Job)
		if err != nil {
			var customErr *utils.CustomError
			if errors.As(err, &customErr) {
				logger.WithFields(map[string]interface{}{
					"error_code": customErr.ErrorCode,
					"error":      customErr.Message,
				}).Error("Analysis rejected")
				return c.JSON(customErr.Code, models.ErrorResponse{
					Error:     customErr.ErrorCode,
					Message:   customErr.Message,
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			logger.WithField("error", err.Error()).Error("Analysis failed")
			internalErr := utils.NewInternalServerError("Failed to analyze resume")
			return c.JSON(internalErr.Code, models.ErrorResponse{
				Error:     internalErr.ErrorCode,
				Message:   internalErr.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.WithFields(map[string]interface{}{
			"report_id":       report.ID,
			"ats_score":       report.ATSScore,
			"processing_time": time.Since(startTime),
		}).Info("Analyze request completed successfully")

		return c.JSON(http.StatusOK, models.AnalyzeResponse{
			Success:        true,
			Result:         report,
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		})
	}
}

// bindAnalyzeRequest converts either request encoding into an AnalyzeRequest
func bindAnalyzeRequest(c echo.Context, cfg *config.Config) (*models.AnalyzeRequest, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if isMultipart(contentType) {
		return bindMultipartAnalyzeRequest(c, cfg)
	}

	var req models.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid request format")
	}
	if int64(len(req.ResumeData)) > cfg.Extractor.MaxFileSize {
		return nil, errors.New("resume file exceeds the maximum allowed size")
	}
	return &req, nil
}

func bindMultipartAnalyzeRequest(c echo.Context, cfg *config.Config) (*models.AnalyzeRequest, error) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return nil, errors.New("multipart request is missing the resume file part")
	}
	if fileHeader.Size > cfg.Extractor.MaxFileSize {
		return nil, errors.New("resume file exceeds the maximum allowed size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("failed to open uploaded resume")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, cfg.Extractor.MaxFileSize+1))
	if err != nil {
		return nil, errors.New("failed to read uploaded resume")
	}
	if int64(len(data)) > cfg.Extractor.MaxFileSize {
		return nil, errors.New("resume file exceeds the maximum allowed size")
	}

	mimeType := c.FormValue("mime_type")
	if mimeType == "" {
		mimeType = fileHeader.Header.Get("Content-Type")
	}

	jobField := c.FormValue("job")
	if jobField == "" {
		return nil, errors.New("multipart request is missing the job field")
	}
	var job models.JobPosting
	if err := json.Unmarshal([]byte(jobField), &job); err != nil {
		return nil, errors.New("job field is not valid JSON")
	}

	return &models.AnalyzeRequest{
		ResumeID:   c.FormValue("resume_id"),
		ResumeData: data,
		MimeType:   mimeType,
		Job:        job,
	}, nil
}

func isMultipart(contentType string) bool {
	return len(contentType) >= len(echo.MIMEMultipartForm) &&
		contentType[:len(echo.MIMEMultipartForm)] == echo.MIMEMultipartForm
}
