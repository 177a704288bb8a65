package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const (
	graphQLPath = "/graphql"

	dailyChallengeQuery = `
query questionOfToday {
  activeDailyCodingChallengeQuestion {
    date
    link
    question {
      questionFrontendId
      questionTitle
      questionTitleSlug
      acRate
      difficulty
      topicTags {
        name
        slug
      }
    }
  }
}`

	communitySolutionsQuery = `
query questionSolutions($filters: QuestionSolutionsFilterInput!) {
  questionSolutions(filters: $filters) {
    solutions {
      id
      title
      viewCount
      solutionTags {
        slug
        name
      }
      post {
        id
        content
        voteCount
        voteUpCount
      }
    }
  }
}`

	questionDetailQuery = `
query questionData($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    questionFrontendId
    questionTitle
  }
}`
)

// API is the part of leetcode.com this service talks to.
type API interface {
	FetchDailyChallenge(ctx context.Context) (*model.POTD, error)
	FetchTopCommunitySolution(ctx context.Context, slug, languageTag string, aliases []string, preferredLanguage string) (*model.CommunitySolution, error)
	FetchQuestionID(ctx context.Context, slug string) (string, error)
	Submit(ctx context.Context, creds model.SessionCredentials, slug, lang, questionID, code string) (int64, error)
	CheckSubmission(ctx context.Context, creds model.SessionCredentials, slug string, submissionID int64) (*CheckResult, error)
	FetchRecentSubmissions(ctx context.Context, creds model.SessionCredentials, slug string, limit int) ([]model.SubmissionSummary, bool, error)
}

type Client struct {
	httpClient       *resty.Client
	baseURL          string
	userAgent        string
	maxRetryAttempts uint
}

var _ API = (*Client)(nil)

func NewClient(baseURL, userAgent string, timeout time.Duration, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &Client{
		httpClient:       client,
		baseURL:          strings.TrimRight(baseURL, "/"),
		userAgent:        userAgent,
		maxRetryAttempts: retryAttempts,
	}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

// BaseURL returns the site root, used for building absolute problem links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) browserHeaders(creds model.SessionCredentials, referer string, includeContentType, includeXHR bool) map[string]string {
	headers := map[string]string{
		"User-Agent": c.userAgent,
		"Origin":     c.baseURL,
		"Accept":     "application/json",
		"Referer":    c.baseURL,
	}
	if referer != "" {
		headers["Referer"] = referer
	}
	if includeContentType {
		headers["Content-Type"] = "application/json"
	}
	if includeXHR {
		headers["X-Requested-With"] = "XMLHttpRequest"
	}
	if creds.CSRFToken != "" {
		headers["x-csrftoken"] = creds.CSRFToken
	}
	var cookies []string
	if creds.LeetCodeSession != "" {
		cookies = append(cookies, "LEETCODE_SESSION="+creds.LeetCodeSession)
	}
	if creds.CSRFToken != "" {
		cookies = append(cookies, "csrftoken="+creds.CSRFToken)
	}
	if len(cookies) > 0 {
		headers["Cookie"] = strings.Join(cookies, "; ")
	}
	return headers
}

func isRetryableStatus(status int) bool {
	return status >= 500 || status == 429
}

// isJSONBody guards the cookie-authenticated endpoints: with stale cookies
// LeetCode answers 200 with an HTML login page instead of JSON, which would
// otherwise decode into a zero-valued result.
func isJSONBody(response *resty.Response) bool {
	contentType := strings.ToLower(response.Header().Get("Content-Type"))
	return strings.Contains(contentType, "json")
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) doGraphQL(ctx context.Context, query string, variables map[string]interface{}) (*graphQLEnvelope, error) {
	body := map[string]interface{}{"query": query}
	if variables != nil {
		body["variables"] = variables
	}

	var envelope *graphQLEnvelope
	err := retry.Do(
		func() error {
			response, err := c.httpClient.R().
				SetContext(ctx).
				SetHeaders(c.browserHeaders(model.SessionCredentials{}, "", true, false)).
				SetBody(body).
				SetResult(&graphQLEnvelope{}).
				Post(graphQLPath)
			if err != nil {
				return fmt.Errorf("httpClient.Post > %w", err)
			}
			if response.IsError() {
				err := fmt.Errorf("GraphQL request failed with status %d: %w", response.StatusCode(), common.ErrUpstream)
				if !isRetryableStatus(response.StatusCode()) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			envelope = response.Result().(*graphQLEnvelope)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

func (c *Client) FetchDailyChallenge(ctx context.Context) (*model.POTD, error) {
	envelope, err := c.doGraphQL(ctx, dailyChallengeQuery, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ActiveDailyCodingChallengeQuestion *struct {
			Date     string `json:"date"`
			Link     string `json:"link"`
			Question *struct {
				QuestionFrontendID json.Number `json:"questionFrontendId"`
				QuestionTitle      string      `json:"questionTitle"`
				QuestionTitleSlug  string      `json:"questionTitleSlug"`
				AcRate             float64     `json:"acRate"`
				Difficulty         string      `json:"difficulty"`
				TopicTags          []model.Tag `json:"topicTags"`
			} `json:"question"`
		} `json:"activeDailyCodingChallengeQuestion"`
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse POTD payload: %v: %w", err, common.ErrUpstream)
	}

	challenge := payload.ActiveDailyCodingChallengeQuestion
	if challenge == nil || challenge.Question == nil {
		return nil, fmt.Errorf("unexpected response structure from LeetCode GraphQL API: %w", common.ErrUpstream)
	}
	question := challenge.Question

	link := challenge.Link
	if link == "" {
		link = "/problems/" + question.QuestionTitleSlug + "/"
	}
	if strings.HasPrefix(link, "/") {
		link = c.baseURL + link
	}

	tags := question.TopicTags
	if tags == nil {
		tags = []model.Tag{}
	}

	return &model.POTD{
		Date:       challenge.Date,
		Link:       link,
		Title:      question.QuestionTitle,
		Slug:       question.QuestionTitleSlug,
		FrontendID: question.QuestionFrontendID.String(),
		Difficulty: model.Difficulty(question.Difficulty),
		AcRate:     question.AcRate,
		Tags:       tags,
	}, nil
}

func (c *Client) FetchTopCommunitySolution(
	ctx context.Context,
	slug, languageTag string,
	aliases []string,
	preferredLanguage string,
) (*model.CommunitySolution, error) {
	filters := map[string]interface{}{
		"questionSlug": slug,
		"skip":         0,
		"first":        10,
		"orderBy":      "most_votes",
	}
	if languageTag != "" {
		filters["languageTags"] = []string{languageTag}
	}

	envelope, err := c.doGraphQL(ctx, communitySolutionsQuery, map[string]interface{}{"filters": filters})
	if err != nil {
		return nil, err
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("community solutions query returned errors: %s: %w",
			strings.Join(messages, ", "), common.ErrUpstream)
	}

	var payload struct {
		QuestionSolutions struct {
			Solutions []communitySolutionEntry `json:"solutions"`
		} `json:"questionSolutions"`
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse community solutions payload: %v: %w", err, common.ErrUpstream)
	}
	solutions := payload.QuestionSolutions.Solutions
	if len(solutions) == 0 {
		return nil, nil
	}

	normalizedAliases := normalizeAliases(aliases)

	var selected *communitySolutionEntry
	snippet := ""
	for i := range solutions {
		candidate := &solutions[i]
		candidateSnippet := ExtractCodeSnippet(candidate.Post.Content, aliases)
		if candidateSnippet != "" {
			selected = candidate
			snippet = candidateSnippet
			break
		}
		if selected == nil {
			selected = candidate
			snippet = candidateSnippet
		}
	}
	if selected == nil {
		return nil, nil
	}

	solutionID, err := selected.ID.Int64()
	if err != nil {
		return nil, fmt.Errorf("invalid solution identifier returned by LeetCode: %w", common.ErrUpstream)
	}

	var votes *int
	if selected.Post.VoteCount != nil {
		v := *selected.Post.VoteCount
		votes = &v
	}

	resolvedLanguage := optionalString(preferredLanguage)
	for _, tag := range selected.SolutionTags {
		tagSlug := NormalizeLanguageKey(tag.Slug)
		if tagSlug == "" {
			continue
		}
		matched := false
		for alias := range normalizedAliases {
			if strings.Contains(tagSlug, alias) || strings.Contains(alias, tagSlug) {
				matched = true
				break
			}
		}
		if matched {
			name := tag.Name
			if name == "" {
				name = tag.Slug
			}
			resolvedLanguage = &name
			break
		}
	}

	title := selected.Title
	if title == "" {
		title = "Community Solution"
	}

	return &model.CommunitySolution{
		ID:       int(solutionID),
		Title:    title,
		URL:      fmt.Sprintf("%s/problems/%s/solutions/%d/", c.baseURL, slug, solutionID),
		Votes:    votes,
		Language: resolvedLanguage,
		Code:     optionalString(snippet),
		Content:  optionalString(selected.Post.Content),
	}, nil
}

type communitySolutionEntry struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	ViewCount    int         `json:"viewCount"`
	SolutionTags []model.Tag `json:"solutionTags"`
	Post         struct {
		ID        json.Number `json:"id"`
		Content   string      `json:"content"`
		VoteCount *int        `json:"voteCount"`
	} `json:"post"`
}

func (c *Client) FetchQuestionID(ctx context.Context, slug string) (string, error) {
	normalizedSlug := strings.TrimSpace(slug)
	if normalizedSlug == "" {
		return "", fmt.Errorf("question slug is required to fetch metadata: %w", common.ErrBadRequest)
	}

	envelope, err := c.doGraphQL(ctx, questionDetailQuery, map[string]interface{}{"titleSlug": normalizedSlug})
	if err != nil {
		return "", err
	}

	var payload struct {
		Question *struct {
			QuestionID json.Number `json:"questionId"`
		} `json:"question"`
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to parse question metadata: %v: %w", err, common.ErrUpstream)
	}
	if payload.Question == nil {
		return "", fmt.Errorf("question metadata missing for slug %q: %w", normalizedSlug, common.ErrUpstream)
	}
	if payload.Question.QuestionID.String() == "" {
		return "", fmt.Errorf("question ID not found for slug %q: %w", normalizedSlug, common.ErrUpstream)
	}
	return payload.Question.QuestionID.String(), nil
}

// Submit posts typed code to the submit endpoint and returns the upstream
// submission id.
func (c *Client) Submit(ctx context.Context, creds model.SessionCredentials, slug, lang, questionID, code string) (int64, error) {
	referer := fmt.Sprintf("%s/problems/%s/", c.baseURL, slug)
	body := map[string]interface{}{
		"lang":        lang,
		"question_id": questionID,
		"typed_code":  code,
		"data_input":  "",
		"test_mode":   false,
	}

	var result struct {
		SubmissionID    json.Number `json:"submission_id"`
		SubmissionIDAlt json.Number `json:"submissionId"`
	}
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(c.browserHeaders(creds, referer, true, true)).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/problems/%s/submit/", slug))
	if err != nil {
		return 0, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return 0, fmt.Errorf("submission request failed with status %d: %w", response.StatusCode(), common.ErrUpstream)
	}
	if !isJSONBody(response) {
		return 0, fmt.Errorf("LeetCode returned a non-JSON response when submitting the code: %w", common.ErrUpstream)
	}

	id := result.SubmissionID
	if id.String() == "" {
		id = result.SubmissionIDAlt
	}
	submissionID, err := id.Int64()
	if err != nil || submissionID == 0 {
		return 0, fmt.Errorf("leetcode did not return a submission id: %w", common.ErrUpstream)
	}
	return submissionID, nil
}

// FlexString tolerates upstream fields that are sometimes strings and
// sometimes numbers (runtime, memory).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*f = "true"
		} else {
			*f = "false"
		}
		return nil
	}
	return fmt.Errorf("unsupported value %s", trimmed)
}

func (f FlexString) Ptr() *string {
	if f == "" {
		return nil
	}
	s := string(f)
	return &s
}

// CheckResult is the raw verdict payload from the check endpoint.
type CheckResult struct {
	State            string     `json:"state"`
	StatusMsg        FlexString `json:"status_msg"`
	Lang             FlexString `json:"lang"`
	Runtime          FlexString `json:"runtime"`
	StatusRuntime    FlexString `json:"status_runtime"`
	Memory           FlexString `json:"memory"`
	StatusMemory     FlexString `json:"status_memory"`
	TotalCorrect     *int       `json:"total_correct"`
	TotalTestcases   *int       `json:"total_testcases"`
	LastTestcase     FlexString `json:"last_testcase"`
	Input            FlexString `json:"input"`
	ExpectedOutput   FlexString `json:"expected_output"`
	CodeOutput       FlexString `json:"code_output"`
	RuntimeError     FlexString `json:"runtime_error"`
	FullRuntimeError FlexString `json:"full_runtime_error"`
	CompileError     FlexString `json:"compile_error"`
	FullCompileError FlexString `json:"full_compile_error"`
}

// Final reports whether the judge finished. PENDING and STARTED are the
// only in-flight states.
func (r *CheckResult) Final() bool {
	state := strings.ToUpper(r.State)
	return state != model.StatePending && state != model.StateStarted
}

func (c *Client) CheckSubmission(ctx context.Context, creds model.SessionCredentials, slug string, submissionID int64) (*CheckResult, error) {
	referer := fmt.Sprintf("%s/problems/%s/", c.baseURL, slug)
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(c.browserHeaders(creds, referer, true, true)).
		SetResult(&CheckResult{}).
		Get(fmt.Sprintf("/submissions/detail/%d/check/", submissionID))
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("check request failed with status %d: %w", response.StatusCode(), common.ErrUpstream)
	}
	if !isJSONBody(response) {
		return nil, fmt.Errorf("LeetCode returned a non-JSON check response: %w", common.ErrUpstream)
	}
	return response.Result().(*CheckResult), nil
}

type submissionDumpEntry struct {
	ID             json.Number `json:"id"`
	SubmissionID   json.Number `json:"submission_id"`
	Status         FlexString  `json:"status"`
	StatusDisplay  FlexString  `json:"status_display"`
	Lang           FlexString  `json:"lang"`
	LangName       FlexString  `json:"lang_name"`
	Runtime        FlexString  `json:"runtime"`
	RuntimeDisplay FlexString  `json:"runtime_display"`
	Memory         FlexString  `json:"memory"`
	MemoryDisplay  FlexString  `json:"memory_display"`
	Timestamp      *int64      `json:"timestamp"`
	Time           FlexString  `json:"time"`
	IsPending      FlexString  `json:"is_pending"`
	URL            FlexString  `json:"url"`
}

func (c *Client) FetchRecentSubmissions(ctx context.Context, creds model.SessionCredentials, slug string, limit int) ([]model.SubmissionSummary, bool, error) {
	normalizedSlug := strings.TrimSpace(slug)
	if normalizedSlug == "" {
		return nil, false, fmt.Errorf("question slug is required to fetch submissions: %w", common.ErrBadRequest)
	}

	referer := fmt.Sprintf("%s/problems/%s/submissions/", c.baseURL, normalizedSlug)

	var payload struct {
		SubmissionsDump []submissionDumpEntry `json:"submissions_dump"`
		HasNext         bool                  `json:"has_next"`
	}
	var response *resty.Response
	err := retry.Do(
		func() error {
			var err error
			response, err = c.httpClient.R().
				SetContext(ctx).
				SetHeaders(c.browserHeaders(creds, referer, false, true)).
				SetQueryParam("offset", "0").
				SetQueryParam("limit", fmt.Sprintf("%d", limit)).
				SetResult(&payload).
				Get(fmt.Sprintf("/api/submissions/%s/", normalizedSlug))
			if err != nil {
				return fmt.Errorf("httpClient.Get > %w", err)
			}
			// 429 is surfaced with its own message instead of being retried here.
			if response.IsError() && response.StatusCode() >= 500 {
				return fmt.Errorf("submissions request failed with status %d: %w", response.StatusCode(), common.ErrUpstream)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, false, err
	}
	if response.IsError() {
		return nil, false, c.submissionsListError(response, normalizedSlug)
	}
	if !isJSONBody(response) {
		return nil, false, fmt.Errorf("LeetCode returned an unexpected (non-JSON) response when listing submissions. "+
			"Open the problem in your browser to confirm your session is still active and try again: %w", common.ErrUpstream)
	}

	submissions := make([]model.SubmissionSummary, 0, len(payload.SubmissionsDump))
	for _, entry := range payload.SubmissionsDump {
		id := entry.ID.String()
		if id == "" {
			id = entry.SubmissionID.String()
		}
		if id == "" {
			continue
		}

		var fullURL *string
		if raw := string(entry.URL); raw != "" {
			resolved := raw
			if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
				resolved = c.baseURL + "/" + strings.TrimLeft(raw, "/")
			}
			fullURL = &resolved
		}

		runtimeDisplay := entry.RuntimeDisplay
		if runtimeDisplay == "" {
			runtimeDisplay = entry.Runtime
		}
		memoryDisplay := entry.MemoryDisplay
		if memoryDisplay == "" {
			memoryDisplay = entry.Memory
		}

		submissions = append(submissions, model.SubmissionSummary{
			SubmissionID:   id,
			Status:         entry.Status.Ptr(),
			StatusDisplay:  entry.StatusDisplay.Ptr(),
			Lang:           entry.Lang.Ptr(),
			LangName:       entry.LangName.Ptr(),
			RuntimeDisplay: runtimeDisplay.Ptr(),
			MemoryDisplay:  memoryDisplay.Ptr(),
			Timestamp:      entry.Timestamp,
			RelativeTime:   entry.Time.Ptr(),
			IsPending:      isPending(string(entry.IsPending)),
			Runtime:        entry.Runtime.Ptr(),
			Memory:         entry.Memory.Ptr(),
			URL:            fullURL,
		})
	}
	return submissions, payload.HasNext, nil
}

// isPending interprets the upstream is_pending field, which is a bool in
// some payloads and a "Pending"/"Not Pending" string in others.
func isPending(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "pending":
		return true
	default:
		return false
	}
}

func (c *Client) submissionsListError(response *resty.Response, slug string) error {
	status := response.StatusCode()
	detail := fmt.Sprintf("fetching submissions failed with status %d", status)

	var errorPayload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(response.String()), &errorPayload); err == nil {
		if errorPayload.Detail != "" {
			detail = errorPayload.Detail
		} else if errorPayload.Message != "" {
			detail = errorPayload.Message
		}
	} else if raw := response.String(); raw != "" {
		if len(raw) > 200 {
			raw = raw[:200]
		}
		detail = fmt.Sprintf("%s. Response: %s", detail, raw)
	}

	switch status {
	case 403:
		detail = "LeetCode rejected the submissions request (HTTP 403). " +
			"Double-check that your stored cookies are still valid by fetching them again from the extension."
	case 404:
		detail = fmt.Sprintf("LeetCode did not recognise the problem slug %q. "+
			"Open the problem once in the browser to refresh your permissions and try again.", slug)
	case 429:
		detail = "LeetCode rate-limited the submissions request (HTTP 429). Please wait a moment before retrying."
	}
	return fmt.Errorf("%s: %w", detail, common.ErrUpstream)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
