package model

// SessionCredentials are the two cookies the browser extension relays:
// the LEETCODE_SESSION cookie and the csrftoken cookie.
type SessionCredentials struct {
	LeetCodeSession string `json:"leetcode_session"`
	CSRFToken       string `json:"csrf_token"`
}

func (c SessionCredentials) Connected() bool {
	return c.LeetCodeSession != "" && c.CSRFToken != ""
}

type SessionStatus struct {
	Connected       bool   `json:"connected"`
	LeetCodeSession string `json:"leetcode_session"`
	CSRFToken       string `json:"csrf_token"`
}
