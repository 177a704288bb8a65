package leetcode

import (
	"html"
	"regexp"
	"strings"
)

var (
	codeFencePattern = regexp.MustCompile("(?s)```([^\n]*)\n(.*?)```")
	htmlCodePattern  = regexp.MustCompile(`(?is)<code[^>]*class="([^"]*)"[^>]*>(.*?)</code>`)
	htmlPrePattern   = regexp.MustCompile(`(?is)<pre[^>]*data-language="([^"]+)"[^>]*>(.*?)</pre>`)

	htmlBreakPattern   = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlParaEndPattern = regexp.MustCompile(`(?i)</p>`)
	htmlAnyTagPattern  = regexp.MustCompile(`<[^>]+>`)
)

// ExtractCodeSnippet pulls a code block matching one of the language aliases
// out of a discussion post. Posts mix markdown fences and raw HTML, so both
// forms are scanned; an unlabeled block still matches when the surrounding
// text names the language or the block itself looks like it.
func ExtractCodeSnippet(content string, aliases []string) string {
	if content == "" || len(aliases) == 0 {
		return ""
	}

	normalized := normalizeAliases(aliases)
	if len(normalized) == 0 {
		return ""
	}

	if snippet := extractFromMarkdownFences(content, normalized); snippet != "" {
		return snippet
	}
	return extractFromHTMLBlocks(content, normalized)
}

func normalizeAliases(aliases []string) map[string]bool {
	normalized := map[string]bool{}
	for _, alias := range aliases {
		if key := NormalizeLanguageKey(alias); key != "" {
			normalized[key] = true
		}
	}
	return normalized
}

func infoMatchesLanguage(info string, normalizedAliases map[string]bool) bool {
	key := NormalizeLanguageKey(info)
	if key == "" {
		return false
	}
	if normalizedAliases[key] {
		return true
	}
	for alias := range normalizedAliases {
		if strings.Contains(key, alias) || strings.Contains(alias, key) {
			return true
		}
	}
	return false
}

// contextMentionsLanguage checks the few lines before a bare fence for a
// language name ("Python solution:" style headers).
func contextMentionsLanguage(content string, start int, normalizedAliases map[string]bool) bool {
	lines := strings.Split(content[:start], "\n")
	if len(lines) > 6 {
		lines = lines[len(lines)-6:]
	}
	for i := len(lines) - 1; i >= 0; i-- {
		normalizedLine := NormalizeLanguageKey(lines[i])
		if normalizedLine == "" {
			continue
		}
		for alias := range normalizedAliases {
			if strings.Contains(normalizedLine, alias) || strings.Contains(alias, normalizedLine) {
				return true
			}
		}
	}
	return false
}

func extractFromMarkdownFences(content string, normalizedAliases map[string]bool) string {
	fallback := ""
	for _, match := range codeFencePattern.FindAllStringSubmatchIndex(content, -1) {
		info := content[match[2]:match[3]]
		body := strings.TrimRight(content[match[4]:match[5]], " \t\r\n")
		if fallback == "" && strings.TrimSpace(body) != "" {
			fallback = body
		}
		if infoMatchesLanguage(info, normalizedAliases) {
			return body
		}
		if strings.TrimSpace(info) == "" {
			if contextMentionsLanguage(content, match[0], normalizedAliases) {
				return body
			}
			if looksLikeLanguage(body, normalizedAliases) {
				return body
			}
		}
	}
	return fallback
}

func extractFromHTMLBlocks(content string, normalizedAliases map[string]bool) string {
	fallback := ""

	scan := func(pattern *regexp.Regexp) string {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			snippet := cleanHTMLSnippet(match[2])
			if !infoMatchesLanguage(match[1], normalizedAliases) {
				if fallback == "" && snippet != "" {
					fallback = snippet
				}
				continue
			}
			if snippet != "" {
				return snippet
			}
		}
		return ""
	}

	if snippet := scan(htmlCodePattern); snippet != "" {
		return snippet
	}
	if snippet := scan(htmlPrePattern); snippet != "" {
		return snippet
	}
	return fallback
}

func cleanHTMLSnippet(raw string) string {
	if raw == "" {
		return ""
	}
	snippet := htmlBreakPattern.ReplaceAllString(raw, "\n")
	snippet = htmlParaEndPattern.ReplaceAllString(snippet, "\n")
	snippet = htmlAnyTagPattern.ReplaceAllString(snippet, "")
	snippet = html.UnescapeString(snippet)
	return strings.Trim(snippet, "\n")
}
