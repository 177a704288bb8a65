package model

import "time"

type StepStatus string

const (
	StepInfo    StepStatus = "info"
	StepSuccess StepStatus = "success"
	StepError   StepStatus = "error"
)

// SubmissionStep is one entry of the submit workflow log shown by the
// dashboard (start, resolve-language, validate-session, ...).
type SubmissionStep struct {
	Step   string     `json:"step"`
	Status StepStatus `json:"status"`
	Detail *string    `json:"detail,omitempty"`
}

// Terminal states reported by the check endpoint. PENDING and STARTED mean
// the judge is still running.
const (
	StateSuccess = "SUCCESS"
	StatePending = "PENDING"
	StateStarted = "STARTED"
)

type SubmissionResult struct {
	SubmissionID   *int64  `json:"submission_id"`
	State          *string `json:"state"`
	StatusMsg      *string `json:"status_msg"`
	Lang           *string `json:"lang"`
	Runtime        *string `json:"runtime"`
	Memory         *string `json:"memory"`
	TotalCorrect   *int    `json:"total_correct"`
	TotalTestcases *int    `json:"total_testcases"`
	LastTestcase   *string `json:"last_testcase"`
	ExpectedOutput *string `json:"expected_output"`
	CodeOutput     *string `json:"code_output"`
	RuntimeError   *string `json:"runtime_error"`
	CompileError   *string `json:"compile_error"`
}

type SubmitRequest struct {
	Slug     string `json:"slug"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

type SubmitResponse struct {
	OK     bool              `json:"ok"`
	Steps  []SubmissionStep  `json:"steps"`
	Result *SubmissionResult `json:"result,omitempty"`
	Error  *string           `json:"error,omitempty"`
}

// SubmissionSummary is one row of the live listing proxied from
// /api/submissions/{slug}/.
type SubmissionSummary struct {
	SubmissionID   string  `json:"submission_id"`
	Status         *string `json:"status"`
	StatusDisplay  *string `json:"status_display"`
	Lang           *string `json:"lang"`
	LangName       *string `json:"lang_name"`
	RuntimeDisplay *string `json:"runtime_display"`
	MemoryDisplay  *string `json:"memory_display"`
	Timestamp      *int64  `json:"timestamp"`
	RelativeTime   *string `json:"relative_time"`
	IsPending      bool    `json:"is_pending"`
	Runtime        *string `json:"runtime"`
	Memory         *string `json:"memory"`
	URL            *string `json:"url"`
}

type SubmissionHistoryResponse struct {
	Submissions []SubmissionSummary `json:"submissions"`
	HasNext     bool                `json:"has_next"`
}

// ArchivedSubmission is the server-side record of one submit attempt. The
// browser keeps its own last-attempt snapshot; this archive outlives it.
type ArchivedSubmission struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	Slug           string           `json:"slug"`
	Language       string           `json:"language"`
	UpstreamID     *int64           `json:"upstream_id,omitempty"`
	State          *string          `json:"state,omitempty"`
	StatusMsg      *string          `json:"status_msg,omitempty"`
	Runtime        *string          `json:"runtime,omitempty"`
	Memory         *string          `json:"memory,omitempty"`
	TotalCorrect   *int             `json:"total_correct,omitempty"`
	TotalTestcases *int             `json:"total_testcases,omitempty"`
	OK             bool             `json:"ok"`
	Error          *string          `json:"error,omitempty"`
	Steps          []SubmissionStep `json:"steps"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// PollJob is queued when the inline check poll runs out of attempts before
// LeetCode reaches a final state. The worker finishes the verdict.
type PollJob struct {
	ArchiveID    string `json:"archive_id"`
	UserID       string `json:"user_id"`
	Slug         string `json:"slug"`
	SubmissionID int64  `json:"submission_id"`
}
