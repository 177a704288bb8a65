package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"
	"potd_board/internal/domain/repository"
	"potd_board/internal/leetcode"
	"potd_board/internal/platform/logger"

	"github.com/google/uuid"
)

// PollEnqueuer hands a still-running submission to the background worker.
type PollEnqueuer interface {
	EnqueuePoll(ctx context.Context, job model.PollJob) error
}

type SubmissionService struct {
	client      leetcode.API
	sessions    *SessionService
	archiveRepo repository.SubmissionArchiveRepository
	queue       PollEnqueuer

	checkAttempts int
	checkInterval time.Duration
}

func NewSubmissionService(
	client leetcode.API,
	sessions *SessionService,
	archiveRepo repository.SubmissionArchiveRepository,
	queue PollEnqueuer,
	checkAttempts int,
	checkInterval time.Duration,
) *SubmissionService {
	if checkAttempts <= 0 {
		checkAttempts = 20
	}
	if checkInterval <= 0 {
		checkInterval = 1500 * time.Millisecond
	}
	return &SubmissionService{
		client:        client,
		sessions:      sessions,
		archiveRepo:   archiveRepo,
		queue:         queue,
		checkAttempts: checkAttempts,
		checkInterval: checkInterval,
	}
}

type stepRecorder struct {
	steps []model.SubmissionStep
}

func (r *stepRecorder) add(step string, status model.StepStatus, detail string) {
	entry := model.SubmissionStep{Step: step, Status: status}
	if detail != "" {
		entry.Detail = &detail
	}
	r.steps = append(r.steps, entry)
}

// Submit drives the whole submit workflow against LeetCode and records every
// step. Workflow failures come back as an OK=false response, not as an
// error: the dashboard renders the step log either way.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req model.SubmitRequest) *model.SubmitResponse {
	rec := &stepRecorder{}
	rec.add("start", model.StepInfo, "Starting submission workflow.")

	normalizedSlug := strings.TrimSpace(req.Slug)
	if normalizedSlug == "" {
		rec.add("validate-request", model.StepError, "Question slug is required.")
		return s.failed(ctx, userID, req, rec, "Question slug is required.")
	}

	trimmedCode := strings.TrimRight(req.Code, " \t\r\n")
	if trimmedCode == "" {
		rec.add("prepare-code", model.StepError, "Code snippet is empty.")
		return s.failed(ctx, userID, req, rec, "Code snippet is empty.")
	}

	submitLang := leetcode.ResolveSubmissionLanguage(req.Language)
	if submitLang == "" {
		detail := fmt.Sprintf("Unsupported language %q.", req.Language)
		rec.add("resolve-language", model.StepError, detail)
		return s.failed(ctx, userID, req, rec, detail)
	}
	rec.add("resolve-language", model.StepSuccess, fmt.Sprintf("Using %s for submission.", submitLang))

	creds, err := s.sessions.Active(ctx, userID)
	if err != nil || !creds.Connected() {
		rec.add("validate-session", model.StepError, "Missing LEETCODE_SESSION or csrftoken.")
		return s.failed(ctx, userID, req, rec,
			"LeetCode session cookies are not configured. Fetch them from the extension and try again.")
	}
	rec.add("validate-session", model.StepSuccess, "LeetCode session detected.")

	questionID, err := s.client.FetchQuestionID(ctx, normalizedSlug)
	if err != nil {
		rec.add("fetch-question", model.StepError, err.Error())
		return s.failed(ctx, userID, req, rec, err.Error())
	}
	rec.add("fetch-question", model.StepSuccess, fmt.Sprintf("Resolved question id %s.", questionID))

	submissionID, err := s.client.Submit(ctx, creds, normalizedSlug, submitLang, questionID, trimmedCode)
	if err != nil {
		rec.add("submit", model.StepError, err.Error())
		return s.failed(ctx, userID, req, rec, err.Error())
	}
	rec.add("submit", model.StepSuccess, fmt.Sprintf("Submission created with id %d.", submissionID))

	var final *leetcode.CheckResult
	for attempt := 1; attempt <= s.checkAttempts; attempt++ {
		select {
		case <-ctx.Done():
			rec.add("check", model.StepError, "Request cancelled while waiting for the verdict.")
			return s.failedWithID(ctx, userID, req, rec, submissionID, "Request cancelled while waiting for the verdict.")
		case <-time.After(s.checkInterval):
		}

		check, err := s.client.CheckSubmission(ctx, creds, normalizedSlug, submissionID)
		if err != nil {
			rec.add("check", model.StepError, err.Error())
			return s.failedWithID(ctx, userID, req, rec, submissionID, err.Error())
		}
		if !check.Final() {
			if attempt%3 == 0 {
				rec.add("check", model.StepInfo, fmt.Sprintf("Waiting for evaluation (state: %s).", strings.ToUpper(check.State)))
			}
			continue
		}
		final = check
		break
	}

	if final == nil {
		// Inline poll budget spent. Hand the verdict to the worker instead
		// of declaring the attempt dead.
		return s.pending(ctx, userID, req, rec, normalizedSlug, submissionID)
	}

	result := resultFromCheck(submissionID, final)
	state := strings.ToUpper(final.State)
	statusMsg := string(final.StatusMsg)
	if statusMsg == "" {
		statusMsg = "Unknown"
	}
	detail := fmt.Sprintf("%s (state: %s)", statusMsg, state)

	accepted := state == model.StateSuccess && strings.EqualFold(statusMsg, "Accepted")
	switch {
	case accepted:
		rec.add("check", model.StepSuccess, detail)
		rec.add("complete", model.StepSuccess, "LeetCode accepted the submission.")
	case state == model.StateSuccess:
		rec.add("check", model.StepInfo, detail)
		rec.add("complete", model.StepInfo, "LeetCode finished processing the submission.")
	default:
		rec.add("check", model.StepError, detail)
		rec.add("complete", model.StepError, "LeetCode reported an issue with the submission.")
	}

	s.archive(ctx, userID, req, rec, &submissionID, result, accepted, nil)
	return &model.SubmitResponse{OK: true, Steps: rec.steps, Result: result}
}

func (s *SubmissionService) failed(ctx context.Context, userID string, req model.SubmitRequest, rec *stepRecorder, message string) *model.SubmitResponse {
	s.archive(ctx, userID, req, rec, nil, nil, false, &message)
	return &model.SubmitResponse{OK: false, Steps: rec.steps, Error: &message}
}

func (s *SubmissionService) failedWithID(ctx context.Context, userID string, req model.SubmitRequest, rec *stepRecorder, submissionID int64, message string) *model.SubmitResponse {
	s.archive(ctx, userID, req, rec, &submissionID, nil, false, &message)
	return &model.SubmitResponse{OK: false, Steps: rec.steps, Error: &message}
}

func (s *SubmissionService) pending(ctx context.Context, userID string, req model.SubmitRequest, rec *stepRecorder, slug string, submissionID int64) *model.SubmitResponse {
	message := "LeetCode is still evaluating the submission. The verdict will appear in the archive shortly."
	rec.add("check", model.StepInfo, message)

	state := model.StatePending
	result := &model.SubmitResponse{OK: false, Steps: rec.steps, Error: &message,
		Result: &model.SubmissionResult{SubmissionID: &submissionID, State: &state}}

	archiveID := s.archive(ctx, userID, req, rec, &submissionID, result.Result, false, &message)
	if archiveID == "" || s.queue == nil {
		return result
	}

	job := model.PollJob{ArchiveID: archiveID, UserID: userID, Slug: slug, SubmissionID: submissionID}
	if err := s.queue.EnqueuePoll(ctx, job); err != nil {
		logger.L().Errorw("Failed to enqueue submission poll job",
			"archive_id", archiveID, "submission_id", submissionID, "error", err)
	}
	return result
}

// archive persists the attempt; archiving is best effort and never fails
// the request.
func (s *SubmissionService) archive(
	ctx context.Context,
	userID string,
	req model.SubmitRequest,
	rec *stepRecorder,
	submissionID *int64,
	result *model.SubmissionResult,
	ok bool,
	errMessage *string,
) string {
	if s.archiveRepo == nil {
		return ""
	}
	record := &model.ArchivedSubmission{
		ID:       uuid.NewString(),
		UserID:   userID,
		Slug:     strings.TrimSpace(req.Slug),
		Language: req.Language,
		OK:       ok,
		Error:    errMessage,
		Steps:    rec.steps,
	}
	record.UpstreamID = submissionID
	if result != nil {
		record.State = result.State
		record.StatusMsg = result.StatusMsg
		record.Runtime = result.Runtime
		record.Memory = result.Memory
		record.TotalCorrect = result.TotalCorrect
		record.TotalTestcases = result.TotalTestcases
	}
	if err := s.archiveRepo.Create(ctx, record); err != nil {
		logger.L().Errorw("Failed to archive submission attempt", "user_id", userID, "error", err)
		return ""
	}
	return record.ID
}

// resultFromCheck flattens the raw check payload into the dashboard DTO,
// preferring the display fields with fallbacks the way LeetCode populates
// them.
func resultFromCheck(submissionID int64, check *leetcode.CheckResult) *model.SubmissionResult {
	state := strings.ToUpper(check.State)
	statusMsg := string(check.StatusMsg)
	if statusMsg == "" {
		statusMsg = "Unknown"
	}

	runtime := check.Runtime
	if runtime == "" {
		runtime = check.StatusRuntime
	}
	memory := check.Memory
	if memory == "" {
		memory = check.StatusMemory
	}
	lastTestcase := check.LastTestcase
	if lastTestcase == "" {
		lastTestcase = check.Input
	}
	runtimeError := check.RuntimeError
	if runtimeError == "" {
		runtimeError = check.FullRuntimeError
	}
	compileError := check.CompileError
	if compileError == "" {
		compileError = check.FullCompileError
	}

	return &model.SubmissionResult{
		SubmissionID:   &submissionID,
		State:          &state,
		StatusMsg:      &statusMsg,
		Lang:           check.Lang.Ptr(),
		Runtime:        runtime.Ptr(),
		Memory:         memory.Ptr(),
		TotalCorrect:   check.TotalCorrect,
		TotalTestcases: check.TotalTestcases,
		LastTestcase:   lastTestcase.Ptr(),
		ExpectedOutput: check.ExpectedOutput.Ptr(),
		CodeOutput:     check.CodeOutput.Ptr(),
		RuntimeError:   runtimeError.Ptr(),
		CompileError:   compileError.Ptr(),
	}
}

// History proxies the live submissions listing for a problem.
func (s *SubmissionService) History(ctx context.Context, userID, rawSlug string, limit int) (*model.SubmissionHistoryResponse, error) {
	normalizedSlug := strings.TrimSpace(rawSlug)
	if normalizedSlug == "" {
		return nil, fmt.Errorf("slug is required: %w", common.ErrBadRequest)
	}

	creds, err := s.sessions.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if creds.LeetCodeSession == "" {
		return nil, fmt.Errorf("LeetCode session cookies are not configured. Fetch them from the extension and try again: %w",
			common.ErrBadRequest)
	}

	submissions, hasNext, err := s.client.FetchRecentSubmissions(ctx, creds, normalizedSlug, limit)
	if err != nil {
		return nil, err
	}
	return &model.SubmissionHistoryResponse{Submissions: submissions, HasNext: hasNext}, nil
}

// Archive lists locally archived attempts for a problem.
func (s *SubmissionService) Archive(ctx context.Context, userID, rawSlug string, limit int) ([]model.ArchivedSubmission, error) {
	normalizedSlug := strings.TrimSpace(rawSlug)
	if normalizedSlug == "" {
		return nil, fmt.Errorf("slug is required: %w", common.ErrBadRequest)
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	records, err := s.archiveRepo.ListByUserAndSlug(ctx, userID, normalizedSlug, limit)
	if err != nil {
		return nil, err
	}
	return records, nil
}
