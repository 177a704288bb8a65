package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"potd_board/internal/app/service"
	"potd_board/internal/domain/model"
	"potd_board/internal/domain/repository"
	"potd_board/internal/leetcode"
	"potd_board/internal/platform/logger"

	"github.com/avast/retry-go"
	"github.com/redis/go-redis/v9"
)

// PollWorker finishes submissions whose verdict outlived the inline poll
// budget, and refreshes the POTD cache when the UTC day rolls over.
type PollWorker struct {
	queue       *Queue
	client      leetcode.API
	sessions    *service.SessionService
	archiveRepo repository.SubmissionArchiveRepository
	potdService *service.POTDService

	pollAttempts int
	pollInterval time.Duration
}

func NewPollWorker(
	queue *Queue,
	client leetcode.API,
	sessions *service.SessionService,
	archiveRepo repository.SubmissionArchiveRepository,
	potdService *service.POTDService,
	pollAttempts int,
	pollInterval time.Duration,
) *PollWorker {
	if pollAttempts <= 0 {
		pollAttempts = 40
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &PollWorker{
		queue:        queue,
		client:       client,
		sessions:     sessions,
		archiveRepo:  archiveRepo,
		potdService:  potdService,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
	}
}

func (w *PollWorker) Start(ctx context.Context) {
	logger.L().Infow("Poll worker started")
	go w.refreshPOTDDaily(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.L().Infow("Poll worker stopping")
			return
		default:
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				logger.L().Errorw("Failed to dequeue poll job", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			w.process(ctx, job)
		}
	}
}

func (w *PollWorker) process(ctx context.Context, job *model.PollJob) {
	logger.L().Infow("Polling pending submission",
		"archive_id", job.ArchiveID, "submission_id", job.SubmissionID)

	creds, err := w.sessions.Active(ctx, job.UserID)
	if err != nil || !creds.Connected() {
		w.finishWithError(ctx, job, "Session cookies were no longer available while polling the verdict.")
		return
	}

	var final *leetcode.CheckResult
	err = retry.Do(
		func() error {
			check, err := w.client.CheckSubmission(ctx, creds, job.Slug, job.SubmissionID)
			if err != nil {
				return err
			}
			if !check.Final() {
				return fmt.Errorf("submission %d still in state %s", job.SubmissionID, check.State)
			}
			final = check
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(w.pollAttempts)),
		retry.Delay(w.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		w.finishWithError(ctx, job, fmt.Sprintf("Gave up waiting for the verdict: %v.", err))
		return
	}

	record, err := w.archiveRepo.GetByID(ctx, job.ArchiveID)
	if err != nil {
		logger.L().Errorw("Archived submission disappeared", "archive_id", job.ArchiveID, "error", err)
		return
	}

	state := strings.ToUpper(final.State)
	statusMsg := string(final.StatusMsg)
	if statusMsg == "" {
		statusMsg = "Unknown"
	}
	runtime := final.Runtime
	if runtime == "" {
		runtime = final.StatusRuntime
	}
	memory := final.Memory
	if memory == "" {
		memory = final.StatusMemory
	}

	record.UpstreamID = &job.SubmissionID
	record.State = &state
	record.StatusMsg = &statusMsg
	record.Runtime = runtime.Ptr()
	record.Memory = memory.Ptr()
	record.TotalCorrect = final.TotalCorrect
	record.TotalTestcases = final.TotalTestcases
	record.OK = state == model.StateSuccess && strings.EqualFold(statusMsg, "Accepted")
	record.Error = nil
	detail := fmt.Sprintf("%s (state: %s)", statusMsg, state)
	status := model.StepError
	if record.OK {
		status = model.StepSuccess
	} else if state == model.StateSuccess {
		status = model.StepInfo
	}
	record.Steps = append(record.Steps, model.SubmissionStep{Step: "check", Status: status, Detail: &detail})

	if err := w.archiveRepo.Update(ctx, record); err != nil {
		logger.L().Errorw("Failed to update archived submission", "archive_id", job.ArchiveID, "error", err)
		return
	}
	logger.L().Infow("Finished pending submission",
		"archive_id", job.ArchiveID, "state", state, "status_msg", statusMsg)
}

func (w *PollWorker) finishWithError(ctx context.Context, job *model.PollJob, message string) {
	record, err := w.archiveRepo.GetByID(ctx, job.ArchiveID)
	if err != nil {
		logger.L().Errorw("Archived submission disappeared", "archive_id", job.ArchiveID, "error", err)
		return
	}
	record.Error = &message
	record.OK = false
	record.Steps = append(record.Steps, model.SubmissionStep{Step: "check", Status: model.StepError, Detail: &message})
	if err := w.archiveRepo.Update(ctx, record); err != nil {
		logger.L().Errorw("Failed to update archived submission", "archive_id", job.ArchiveID, "error", err)
	}
}

// refreshPOTDDaily refills the POTD cache shortly after each UTC midnight
// so the first dashboard load of the day is warm.
func (w *PollWorker) refreshPOTDDaily(ctx context.Context) {
	if w.potdService == nil {
		return
	}
	for {
		now := time.Now().UTC()
		next := now.Truncate(24 * time.Hour).Add(24*time.Hour + time.Minute)
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}
		if _, err := w.potdService.Refresh(ctx); err != nil {
			logger.L().Warnw("POTD refresh failed", "error", err)
			continue
		}
		logger.L().Infow("POTD cache refreshed for the new UTC day")
	}
}
