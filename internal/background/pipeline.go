package background

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"resumatch/internal/analyzer"
	"resumatch/internal/artifacts"
	"resumatch/internal/config"
	"resumatch/internal/enhance"
	"resumatch/internal/logging"
	"resumatch/internal/logging/types"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"
)

// enhanceTask is the unit of work handed to pipeline workers.
type enhanceTask struct {
	record   *JobRecord
	analysis *analyzer.Analysis
}

// Pipeline runs enhancement jobs asynchronously on a worker pool. It
// enforces one live job per resume/job pair and exposes cancellation.
type Pipeline struct {
	cfg       *config.Config
	store     JobStore
	analyses  *analyzer.Store
	rewriter  *enhance.Rewriter
	artifacts artifacts.Store
	logger    types.Logger
	taskLog   *JobCompletionLogger

	taskChan chan *enhanceTask
	wg       sync.WaitGroup

	mu       sync.Mutex
	byKey    map[IdempotencyKey]string
	cancels  map[string]context.CancelFunc
	shutdown bool

	stopCh chan struct{}
}

// NewPipeline creates a new enhancement pipeline
func NewPipeline(cfg *config.Config, analyses *analyzer.Store, store JobStore, artifactStore artifacts.Store) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		analyses:  analyses,
		rewriter:  enhance.NewRewriter(),
		artifacts: artifactStore,
		logger:    logging.GetGlobalLogger(),
		taskLog:   NewJobCompletionLogger(),
		taskChan:  make(chan *enhanceTask, cfg.Workers.QueueSize),
		byKey:     make(map[IdempotencyKey]string),
		cancels:   make(map[string]context.CancelFunc),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the worker pool and the cleanup routine
func (p *Pipeline) Start(ctx context.Context) error {
	poolSize := p.cfg.Workers.PoolSize
	if poolSize <= 0 {
		poolSize = 1
	}

	for i := 0; i < poolSize; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	go p.cleanupRoutine(ctx)

	p.logger.Info("Enhancement pipeline started", map[string]interface{}{
		"pool_size":  poolSize,
		"queue_size": p.cfg.Workers.QueueSize,
	})

	return nil
}

// Stop shuts down the pipeline and waits for in-flight jobs to finish
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil
	}
	p.shutdown = true
	p.mu.Unlock()

	close(p.stopCh)
	close(p.taskChan)
	p.wg.Wait()

	p.logger.Info("Enhancement pipeline stopped")
	return nil
}

// Submit queues an enhancement job for the given request. When a live job
// already exists for the same resume/job pair its record is returned with
// existing=true instead of creating a duplicate, unless Force is set.
func (p *Pipeline) Submit(ctx context.Context, req models.EnhanceRequest) (*JobRecord, bool, error) {
	analysis, ok := p.analyses.Get(req.ReportID)
	if !ok {
		return nil, false, utils.NewInvalidInputError(fmt.Sprintf("unknown report: %s", req.ReportID))
	}
	if analysis.Report.ResumeID != req.ResumeID || analysis.Report.JobID != req.JobID {
		return nil, false, utils.NewInvalidInputError("report does not belong to the given resume and job")
	}

	key := IdempotencyKey{ResumeID: req.ResumeID, JobID: req.JobID}

	// The whole admit sequence runs under p.mu: the dedupe lookup, the
	// store write and the enqueue are one atomic step, so a concurrent
	// Submit for the same key always observes either no job or a fully
	// stored one, and Stop cannot close the channel mid-send.
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil, false, errors.New("pipeline is shutting down")
	}

	if existingID, ok := p.byKey[key]; ok {
		existing, getErr := p.store.Get(ctx, existingID)
		if getErr != nil && !errors.Is(getErr, ErrJobNotFound) {
			p.mu.Unlock()
			return nil, false, fmt.Errorf("failed to load job record: %w", getErr)
		}
		if getErr == nil {
			if existing.Status.IsActive() {
				// Active jobs always dedupe, even under Force.
				p.mu.Unlock()
				return existing, true, nil
			}
			if existing.Status == models.JobStatusCompleted && !req.Force {
				p.mu.Unlock()
				return existing, true, nil
			}
			// Failed, or Completed with Force: fall through to a fresh
			// attempt. A not-found record means cleanup pruned a terminal
			// job, which is retryable the same way.
		}
	}

	record := &JobRecord{
		ID:        utils.GenerateEnhanceJobID(),
		ReportID:  req.ReportID,
		Key:       key,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := p.store.Store(ctx, record); err != nil {
		p.mu.Unlock()
		return nil, false, fmt.Errorf("failed to store job record: %w", err)
	}
	p.byKey[key] = record.ID

	task := &enhanceTask{record: record, analysis: analysis}

	select {
	case p.taskChan <- task:
		p.mu.Unlock()
		p.logger.Info("Enhancement job queued", map[string]interface{}{
			"job_id":    record.ID,
			"report_id": record.ReportID,
			"resume_id": key.ResumeID,
		})
		// The worker owns the task's record from here; hand back a copy.
		return copyRecord(record), false, nil
	default:
		p.mu.Unlock()
		p.failJob(record, utils.NewEnhancementFailedError("job queue is full"))
		return nil, false, ErrQueueFull
	}
}

// GetJob returns the record for a job id
func (p *Pipeline) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	return p.store.Get(ctx, jobID)
}

// ListJobs returns all known job records
func (p *Pipeline) ListJobs(ctx context.Context) ([]*JobRecord, error) {
	return p.store.List(ctx)
}

// Cancel aborts a pending or running job. Terminal jobs cannot be
// cancelled.
func (p *Pipeline) Cancel(ctx context.Context, jobID string) (*JobRecord, error) {
	record, err := p.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if record.Status.IsTerminal() {
		return nil, &utils.CustomError{
			Code:      http.StatusConflict,
			ErrorCode: utils.CodePreconditionFailed,
			Message:   "Job already finished",
			Detail:    fmt.Sprintf("job %s is %s", jobID, record.Status),
		}
	}

	// Held across the cancels lookup and the failure write so a worker
	// picking the job up cannot slip between them and mark it Running
	// after it was declared cancelled.
	p.mu.Lock()
	if cancel, running := p.cancels[jobID]; running {
		p.mu.Unlock()
		// The worker observes the cancelled context and finalizes the
		// record itself so no artifact is ever attached.
		cancel()
		return record, nil
	}

	// Still queued: mark failed now, the worker skips terminal records.
	p.failJob(record, utils.NewCancelledError("job cancelled before it started"))
	p.mu.Unlock()
	return record, nil
}

func (p *Pipeline) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for task := range p.taskChan {
		p.runTask(ctx, id, task)
	}
}

func (p *Pipeline) runTask(ctx context.Context, workerID int, task *enhanceTask) {
	record := task.record
	start := time.Now()

	taskCtx, cancel := context.WithTimeout(ctx, p.cfg.BackgroundTasks.TaskTimeout)

	// The terminal re-check and the cancel registration happen under the
	// same lock Cancel takes, so a job cancelled while queued is skipped
	// here and a job picked up first is reachable through p.cancels.
	p.mu.Lock()
	current, err := p.store.Get(ctx, record.ID)
	if err == nil && current.Status.IsTerminal() {
		p.mu.Unlock()
		cancel()
		return
	}
	p.cancels[record.ID] = cancel
	p.mu.Unlock()
	defer func() {
		cancel()
		p.mu.Lock()
		delete(p.cancels, record.ID)
		p.mu.Unlock()
	}()

	record.Status = models.JobStatusRunning
	if err := p.store.Update(context.Background(), record); err != nil {
		p.logger.Error("Failed to mark job running", map[string]interface{}{
			"job_id": record.ID,
			"error":  err.Error(),
		})
	}

	p.logger.Info("Enhancement job started", map[string]interface{}{
		"job_id":    record.ID,
		"worker_id": workerID,
		"report_id": record.ReportID,
	})

	artifact, err := p.rewriter.Rewrite(taskCtx, task.analysis)
	elapsed := time.Since(start)

	if err != nil {
		var customErr *utils.CustomError
		if !errors.As(err, &customErr) {
			customErr = utils.NewEnhancementFailedError(err.Error())
		}
		if taskCtx.Err() != nil {
			customErr = utils.NewCancelledError(taskCtx.Err().Error())
		}
		p.finalizeJob(record, models.JobStatusFailed, "", customErr, elapsed)
		return
	}

	ref, err := p.artifacts.Put(context.Background(), record.ID+".txt", artifact)
	if err != nil {
		cause := utils.NewEnhancementFailedError(fmt.Sprintf("failed to store artifact: %v", err))
		p.finalizeJob(record, models.JobStatusFailed, "", cause, elapsed)
		return
	}

	p.finalizeJob(record, models.JobStatusCompleted, ref, nil, elapsed)
}

// failJob finalizes a job that never ran.
func (p *Pipeline) failJob(record *JobRecord, cause *utils.CustomError) {
	p.finalizeJob(record, models.JobStatusFailed, "", cause, 0)
}

func (p *Pipeline) finalizeJob(record *JobRecord, status models.JobStatus, artifactRef string, cause *utils.CustomError, elapsed time.Duration) {
	now := time.Now()
	record.Status = status
	record.ResultArtifactRef = artifactRef
	record.Error = ""
	record.ErrorCode = ""
	if cause != nil {
		record.Error = cause.Error()
		record.ErrorCode = cause.ErrorCode
	}
	record.CompletedAt = &now
	if elapsed > 0 {
		record.ProcessingTime = &elapsed
	}

	if err := p.store.Update(context.Background(), record); err != nil {
		if errors.Is(err, ErrJobTerminal) {
			// Already finalized elsewhere, the stored outcome stands.
			return
		}
		p.logger.Error("Failed to finalize job record", map[string]interface{}{
			"job_id": record.ID,
			"error":  err.Error(),
		})
	}

	p.taskLog.LogCompletion(record)
}

func (p *Pipeline) cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.BackgroundTasks.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			removed, err := p.store.Cleanup(context.Background(), p.cfg.BackgroundTasks.MaxJobAge)
			if err != nil {
				p.logger.Error("Job cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if len(removed) > 0 {
				p.mu.Lock()
				for _, record := range removed {
					if p.byKey[record.Key] == record.ID {
						delete(p.byKey, record.Key)
					}
				}
				p.mu.Unlock()
				p.logger.Info("Cleaned up old enhancement jobs", map[string]interface{}{
					"count": len(removed),
				})
			}
		}
	}
}
