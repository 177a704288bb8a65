package leetcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, retryAttempts uint) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-agent", 5*time.Second, retryAttempts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFetchDailyChallenge(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"activeDailyCodingChallengeQuestion": {
					"date": "2026-08-29",
					"link": "/problems/two-sum/",
					"question": {
						"questionFrontendId": 1,
						"questionTitle": "Two Sum",
						"questionTitleSlug": "two-sum",
						"acRate": 51.2,
						"difficulty": "Easy",
						"topicTags": [{"name": "Array", "slug": "array"}]
					}
				}
			}
		}`))
	})

	client := newTestClient(t, handler, 0)

	potd, err := client.FetchDailyChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", potd.Date)
	assert.Equal(t, client.BaseURL()+"/problems/two-sum/", potd.Link)
	assert.Equal(t, "Two Sum", potd.Title)
	assert.Equal(t, "two-sum", potd.Slug)
	assert.Equal(t, "1", potd.FrontendID)
	assert.Equal(t, model.DifficultyEasy, potd.Difficulty)
	assert.InDelta(t, 51.2, potd.AcRate, 0.001)
	require.Len(t, potd.Tags, 1)
	assert.Equal(t, "array", potd.Tags[0].Slug)
}

func TestFetchDailyChallenge_MissingQuestion(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"activeDailyCodingChallengeQuestion": null}}`))
	})

	client := newTestClient(t, handler, 0)

	_, err := client.FetchDailyChallenge(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestDoGraphQL_RetriesServerErrors(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"question": {"questionId": "1"}}}`))
	})

	client := newTestClient(t, handler, 2)

	id, err := client.FetchQuestionID(context.Background(), "two-sum")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, 2, calls)
}

func TestDoGraphQL_ClientErrorNotRetried(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	client := newTestClient(t, handler, 3)

	_, err := client.FetchQuestionID(context.Background(), "two-sum")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Equal(t, 1, calls)
}

func TestFetchQuestionID_EmptySlug(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), 0)

	_, err := client.FetchQuestionID(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestFetchTopCommunitySolution(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables struct {
				Filters map[string]interface{} `json:"filters"`
			} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "two-sum", body.Variables.Filters["questionSlug"])
		assert.Equal(t, "most_votes", body.Variables.Filters["orderBy"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"questionSolutions": {
					"solutions": [
						{
							"id": 42,
							"title": "Clean Python",
							"viewCount": 1000,
							"solutionTags": [{"name": "Python3", "slug": "python-3"}],
							"post": {
								"id": 7,
								"content": "Here you go\n` + "```python\\ndef f():\\n    pass\\n```" + `",
								"voteCount": 12
							}
						}
					]
				}
			}
		}`))
	})

	client := newTestClient(t, handler, 0)

	solution, err := client.FetchTopCommunitySolution(
		context.Background(), "two-sum", "python", []string{"python", "python3", "py"}, "python")
	require.NoError(t, err)
	require.NotNil(t, solution)
	assert.Equal(t, 42, solution.ID)
	assert.Equal(t, "Clean Python", solution.Title)
	assert.Equal(t, client.BaseURL()+"/problems/two-sum/solutions/42/", solution.URL)
	require.NotNil(t, solution.Votes)
	assert.Equal(t, 12, *solution.Votes)
	require.NotNil(t, solution.Language)
	assert.Equal(t, "Python3", *solution.Language)
	require.NotNil(t, solution.Code)
	assert.Equal(t, "def f():\n    pass", *solution.Code)
}

func TestFetchTopCommunitySolution_NoSolutions(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"questionSolutions": {"solutions": []}}}`))
	})

	client := newTestClient(t, handler, 0)

	solution, err := client.FetchTopCommunitySolution(
		context.Background(), "two-sum", "python", []string{"python"}, "python")
	require.NoError(t, err)
	assert.Nil(t, solution)
}

func TestSubmit(t *testing.T) {
	creds := model.SessionCredentials{LeetCodeSession: "sess", CSRFToken: "csrf"}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/problems/two-sum/submit/", r.URL.Path)
		assert.Equal(t, "csrf", r.Header.Get("x-csrftoken"))
		assert.Contains(t, r.Header.Get("Cookie"), "LEETCODE_SESSION=sess")
		assert.Contains(t, r.Header.Get("Cookie"), "csrftoken=csrf")
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "python3", body["lang"])
		assert.Equal(t, "1", body["question_id"])
		assert.Equal(t, "def f(): pass", body["typed_code"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"submission_id": 987654}`))
	})

	client := newTestClient(t, handler, 0)

	id, err := client.Submit(context.Background(), creds, "two-sum", "python3", "1", "def f(): pass")
	require.NoError(t, err)
	assert.Equal(t, int64(987654), id)
}

func TestSubmit_MissingID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, 0)

	_, err := client.Submit(context.Background(), model.SessionCredentials{}, "two-sum", "python3", "1", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestCheckSubmission(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions/detail/987654/check/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"state": "SUCCESS",
			"status_msg": "Accepted",
			"lang": "python3",
			"status_runtime": "52 ms",
			"status_memory": "16.1 MB",
			"total_correct": 57,
			"total_testcases": 57
		}`))
	})

	client := newTestClient(t, handler, 0)

	result, err := client.CheckSubmission(context.Background(), model.SessionCredentials{}, "two-sum", 987654)
	require.NoError(t, err)
	assert.True(t, result.Final())
	assert.Equal(t, "SUCCESS", result.State)
	assert.Equal(t, FlexString("Accepted"), result.StatusMsg)
	assert.Equal(t, FlexString("52 ms"), result.StatusRuntime)
	require.NotNil(t, result.TotalCorrect)
	assert.Equal(t, 57, *result.TotalCorrect)
}

func TestCheckSubmission_NonJSONBody(t *testing.T) {
	// A stale session gets a 200 HTML login page instead of a verdict.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Sign in to LeetCode</body></html>"))
	})

	client := newTestClient(t, handler, 0)

	_, err := client.CheckSubmission(context.Background(), model.SessionCredentials{}, "two-sum", 987654)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Contains(t, err.Error(), "non-JSON check response")
}

func TestSubmit_NonJSONBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Sign in to LeetCode</body></html>"))
	})

	client := newTestClient(t, handler, 0)

	_, err := client.Submit(context.Background(), model.SessionCredentials{}, "two-sum", "python3", "1", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Contains(t, err.Error(), "non-JSON response when submitting")
}

func TestCheckResultFinal(t *testing.T) {
	assert.False(t, (&CheckResult{State: "PENDING"}).Final())
	assert.False(t, (&CheckResult{State: "started"}).Final())
	assert.True(t, (&CheckResult{State: "SUCCESS"}).Final())
	assert.True(t, (&CheckResult{State: "FAILURE"}).Final())
}

func TestFetchRecentSubmissions(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/submissions/two-sum/", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"submissions_dump": [
				{
					"id": 111,
					"status_display": "Accepted",
					"lang": "python3",
					"runtime": "52 ms",
					"memory": "16 MB",
					"timestamp": 1756339200,
					"time": "2 hours ago",
					"is_pending": "Not Pending",
					"url": "/submissions/detail/111/"
				},
				{
					"submission_id": 222,
					"status_display": "Wrong Answer",
					"is_pending": true
				}
			],
			"has_next": true
		}`))
	})

	client := newTestClient(t, handler, 0)

	submissions, hasNext, err := client.FetchRecentSubmissions(
		context.Background(), model.SessionCredentials{LeetCodeSession: "s"}, "two-sum", 10)
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, submissions, 2)

	first := submissions[0]
	assert.Equal(t, "111", first.SubmissionID)
	require.NotNil(t, first.StatusDisplay)
	assert.Equal(t, "Accepted", *first.StatusDisplay)
	require.NotNil(t, first.RuntimeDisplay)
	assert.Equal(t, "52 ms", *first.RuntimeDisplay)
	require.NotNil(t, first.URL)
	assert.Equal(t, client.BaseURL()+"/submissions/detail/111/", *first.URL)
	assert.False(t, first.IsPending)

	second := submissions[1]
	assert.Equal(t, "222", second.SubmissionID)
	assert.True(t, second.IsPending)
	assert.Nil(t, second.URL)
}

func TestFetchRecentSubmissions_Forbidden(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client := newTestClient(t, handler, 0)

	_, _, err := client.FetchRecentSubmissions(context.Background(), model.SessionCredentials{}, "two-sum", 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestFetchRecentSubmissions_NonJSONBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Sign in to LeetCode</body></html>"))
	})

	client := newTestClient(t, handler, 0)

	_, _, err := client.FetchRecentSubmissions(context.Background(), model.SessionCredentials{}, "two-sum", 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Contains(t, err.Error(), "non-JSON) response when listing submissions")
}

func TestFetchRecentSubmissions_RateLimited(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client := newTestClient(t, handler, 3)

	_, _, err := client.FetchRecentSubmissions(context.Background(), model.SessionCredentials{}, "two-sum", 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate-limited")
	assert.Equal(t, 1, calls)
}

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    FlexString
		wantErr bool
	}{
		{name: "string", raw: `"52 ms"`, want: "52 ms"},
		{name: "number", raw: `42`, want: "42"},
		{name: "float", raw: `16.5`, want: "16.5"},
		{name: "bool true", raw: `true`, want: "true"},
		{name: "null", raw: `null`, want: ""},
		{name: "object rejected", raw: `{"a": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlexStringPtr(t *testing.T) {
	assert.Nil(t, FlexString("").Ptr())

	ptr := FlexString("ok").Ptr()
	require.NotNil(t, ptr)
	assert.Equal(t, "ok", *ptr)
}

func TestIsPending(t *testing.T) {
	assert.True(t, isPending("true"))
	assert.True(t, isPending("Pending"))
	assert.False(t, isPending("Not Pending"))
	assert.False(t, isPending("false"))
	assert.False(t, isPending(""))
}

func TestBrowserHeaders_NoCredentials(t *testing.T) {
	client := NewClient("https://leetcode.com", "agent", time.Second, 0)
	defer client.Close()

	headers := client.browserHeaders(model.SessionCredentials{}, "", false, false)
	_, hasCookie := headers["Cookie"]
	assert.False(t, hasCookie)
	_, hasCSRF := headers["x-csrftoken"]
	assert.False(t, hasCSRF)
	assert.Equal(t, "https://leetcode.com", headers["Referer"])
}
