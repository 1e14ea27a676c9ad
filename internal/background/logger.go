package background

import (
	"resumatch/internal/logging"
	"resumatch/internal/logging/types"
	"resumatch/pkg/models"
)

// JobCompletionLogger emits a structured record whenever an enhancement
// job reaches a terminal state.
type JobCompletionLogger struct {
	logger types.Logger
}

// NewJobCompletionLogger creates a new job completion logger
func NewJobCompletionLogger() *JobCompletionLogger {
	return &JobCompletionLogger{
		logger: logging.GetGlobalLogger(),
	}
}

// LogCompletion logs the terminal state of a job
func (l *JobCompletionLogger) LogCompletion(record *JobRecord) {
	fields := map[string]interface{}{
		"job_id":    record.ID,
		"report_id": record.ReportID,
		"status":    string(record.Status),
	}
	if record.ProcessingTime != nil {
		fields["processing_time"] = record.ProcessingTime.String()
	}

	switch record.Status {
	case models.JobStatusCompleted:
		fields["artifact_ref"] = record.ResultArtifactRef
		l.logger.Info("Enhancement job completed", fields)
	case models.JobStatusFailed:
		fields["error"] = record.Error
		if record.ErrorCode != "" {
			fields["error_code"] = record.ErrorCode
		}
		l.logger.Error("Enhancement job failed", fields)
	default:
		l.logger.Warn("Enhancement job finalized in non-terminal state", fields)
	}
}
