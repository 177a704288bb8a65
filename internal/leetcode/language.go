package leetcode

import (
	"regexp"
	"strings"
)

// languageConfig maps a canonical language to the solution-tag slug LeetCode
// uses for discussion filtering and the aliases users type in.
type languageConfig struct {
	Slug    string
	Aliases []string
}

var languageMappings = map[string]languageConfig{
	"python":     {Slug: "python", Aliases: []string{"python", "python3", "py"}},
	"cpp":        {Slug: "cpp", Aliases: []string{"cpp", "c++", "cxx"}},
	"java":       {Slug: "java", Aliases: []string{"java"}},
	"javascript": {Slug: "javascript", Aliases: []string{"javascript", "js"}},
	"typescript": {Slug: "typescript", Aliases: []string{"typescript", "ts"}},
	"c":          {Slug: "c", Aliases: []string{"c"}},
	"csharp":     {Slug: "csharp", Aliases: []string{"csharp", "c#", "cs"}},
	"go":         {Slug: "golang", Aliases: []string{"golang", "go"}},
	"rust":       {Slug: "rust", Aliases: []string{"rust"}},
	"kotlin":     {Slug: "kotlin", Aliases: []string{"kotlin"}},
	"swift":      {Slug: "swift", Aliases: []string{"swift"}},
}

// submissionLanguageCodes maps normalized aliases to the lang value the
// submit endpoint expects. Note python submits as python3 and go as golang.
var submissionLanguageCodes = map[string]string{
	"python":     "python3",
	"python3":    "python3",
	"py":         "python3",
	"cpp":        "cpp",
	"c++":        "cpp",
	"cxx":        "cpp",
	"java":       "java",
	"javascript": "javascript",
	"js":         "javascript",
	"typescript": "typescript",
	"ts":         "typescript",
	"c":          "c",
	"csharp":     "csharp",
	"c#":         "csharp",
	"cs":         "csharp",
	"golang":     "golang",
	"go":         "golang",
	"rust":       "rust",
	"kotlin":     "kotlin",
	"swift":      "swift",
}

var nonLanguageChars = regexp.MustCompile(`[^a-z0-9+#]+`)

// NormalizeLanguageKey lowercases and strips everything that is not part of
// a language name, so "C++ " and "c++" compare equal.
func NormalizeLanguageKey(value string) string {
	return nonLanguageChars.ReplaceAllString(strings.ToLower(value), "")
}

// ResolveLanguage returns the solution-tag slug, the canonical user-facing
// language, and the normalized alias set for snippet matching. Unknown
// languages pass through normalized so filtering still works.
func ResolveLanguage(language string) (tag string, canonical string, aliases []string) {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		return "", "", nil
	}

	config, ok := languageMappings[key]
	if !ok {
		normalized := NormalizeLanguageKey(key)
		if normalized == "" {
			normalized = key
		}
		return normalized, key, []string{key}
	}

	seen := map[string]bool{}
	for _, alias := range append(config.Aliases, config.Slug, key) {
		normalized := NormalizeLanguageKey(alias)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		aliases = append(aliases, normalized)
	}
	return config.Slug, key, aliases
}

// ResolveSubmissionLanguage maps any accepted alias to the submit endpoint
// language code, or "" when the language is unsupported.
func ResolveSubmissionLanguage(language string) string {
	normalized := NormalizeLanguageKey(language)
	if normalized == "" {
		return ""
	}
	if code, ok := submissionLanguageCodes[normalized]; ok {
		return code
	}

	for key, config := range languageMappings {
		candidates := append([]string{key, config.Slug}, config.Aliases...)
		for _, alias := range candidates {
			if NormalizeLanguageKey(alias) != normalized {
				continue
			}
			if code, ok := submissionLanguageCodes[NormalizeLanguageKey(config.Slug)]; ok {
				return code
			}
			if code, ok := submissionLanguageCodes[key]; ok {
				return code
			}
		}
	}
	return ""
}

// languageHeuristics guess whether an unlabeled snippet is written in the
// given language. Keyed by normalized alias.
var languageHeuristics = map[string]func(snippet, lower string) bool{
	"python": func(snippet, lower string) bool {
		return strings.Contains(lower, "def ") || strings.HasPrefix(lower, "class ") || strings.Contains(snippet, ":\n")
	},
	"java": func(snippet, lower string) bool {
		return strings.Contains(snippet, "class ") && strings.Contains(snippet, ";") &&
			(strings.Contains(lower, "public ") || strings.Contains(lower, "private "))
	},
	"cpp": func(snippet, lower string) bool {
		return strings.Contains(lower, "#include") || strings.Contains(snippet, "std::") || strings.Contains(lower, "template")
	},
	"c#": func(snippet, lower string) bool {
		return strings.Contains(snippet, "using System") || strings.Contains(lower, "namespace ") || strings.Contains(lower, "public class")
	},
	"javascript": func(snippet, lower string) bool {
		return strings.Contains(lower, "function ") ||
			(strings.Contains(lower, "const ") && strings.Contains(snippet, "=>")) ||
			strings.Contains(lower, "module.exports")
	},
	"typescript": func(snippet, lower string) bool {
		return strings.Contains(lower, "interface ") || strings.Contains(lower, "type ") ||
			(strings.Contains(lower, "const ") && strings.Contains(snippet, "=>"))
	},
	"golang": func(snippet, lower string) bool {
		return strings.HasPrefix(lower, "package ") || strings.Contains(lower, "func ")
	},
	"rust": func(snippet, lower string) bool {
		return strings.Contains(lower, "fn ") && strings.Contains(lower, "let ")
	},
	"kotlin": func(snippet, lower string) bool {
		return strings.Contains(lower, "fun ") || strings.Contains(lower, "val ")
	},
	"swift": func(snippet, lower string) bool {
		return (strings.Contains(lower, "let ") && strings.Contains(lower, "func ")) || strings.Contains(lower, "import foundation")
	},
	"c": func(snippet, lower string) bool {
		return strings.Contains(lower, "#include") || strings.Contains(lower, "int main")
	},
}

// heuristic aliases that share a matcher
func init() {
	languageHeuristics["py"] = languageHeuristics["python"]
	languageHeuristics["python3"] = languageHeuristics["python"]
	languageHeuristics["c++"] = languageHeuristics["cpp"]
	languageHeuristics["cxx"] = languageHeuristics["cpp"]
	languageHeuristics["csharp"] = languageHeuristics["c#"]
	languageHeuristics["cs"] = languageHeuristics["c#"]
	languageHeuristics["js"] = languageHeuristics["javascript"]
	languageHeuristics["ts"] = languageHeuristics["typescript"]
	languageHeuristics["go"] = languageHeuristics["golang"]
}

func looksLikeLanguage(snippet string, normalizedAliases map[string]bool) bool {
	clean := strings.TrimSpace(snippet)
	if clean == "" {
		return false
	}
	lower := strings.ToLower(clean)
	for alias := range normalizedAliases {
		if matcher, ok := languageHeuristics[alias]; ok && matcher(clean, lower) {
			return true
		}
	}
	return false
}
