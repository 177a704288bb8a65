package leetcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguageKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Python", want: "python"},
		{name: "keeps plus", input: "C++", want: "c++"},
		{name: "keeps hash", input: "C#", want: "c#"},
		{name: "strips spaces and punctuation", input: "  Java Script!  ", want: "javascript"},
		{name: "empty", input: "", want: ""},
		{name: "only punctuation", input: "---", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLanguageKey(tt.input))
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantTag       string
		wantCanonical string
		wantAliases   []string
	}{
		{
			name:          "python keeps its tag",
			input:         "python",
			wantTag:       "python",
			wantCanonical: "python",
			wantAliases:   []string{"python", "python3", "py"},
		},
		{
			name:          "go maps to golang tag",
			input:         "go",
			wantTag:       "golang",
			wantCanonical: "go",
			wantAliases:   []string{"golang", "go"},
		},
		{
			name:          "trims and lowercases",
			input:         "  Rust ",
			wantTag:       "rust",
			wantCanonical: "rust",
			wantAliases:   []string{"rust"},
		},
		{
			name:          "unknown language passes through",
			input:         "brainfuck",
			wantTag:       "brainfuck",
			wantCanonical: "brainfuck",
			wantAliases:   []string{"brainfuck"},
		},
		{
			name:  "empty yields nothing",
			input: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, canonical, aliases := ResolveLanguage(tt.input)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantCanonical, canonical)
			assert.Equal(t, tt.wantAliases, aliases)
		})
	}
}

func TestResolveSubmissionLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "python", want: "python3"},
		{input: "Python3", want: "python3"},
		{input: "py", want: "python3"},
		{input: "go", want: "golang"},
		{input: "Golang", want: "golang"},
		{input: "C++", want: "cpp"},
		{input: "c#", want: "csharp"},
		{input: "TypeScript", want: "typescript"},
		{input: "cobol", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSubmissionLanguage(tt.input))
		})
	}
}

func TestLooksLikeLanguage(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		aliases []string
		want    bool
	}{
		{
			name:    "python def",
			snippet: "def two_sum(nums, target):\n    return []",
			aliases: []string{"python"},
			want:    true,
		},
		{
			name:    "go func",
			snippet: "func twoSum(nums []int, target int) []int {\n\treturn nil\n}",
			aliases: []string{"golang", "go"},
			want:    true,
		},
		{
			name:    "cpp include",
			snippet: "#include <vector>\nusing namespace std;",
			aliases: []string{"cpp", "c++"},
			want:    true,
		},
		{
			name:    "python snippet does not match java",
			snippet: "def f():\n    pass",
			aliases: []string{"java"},
			want:    false,
		},
		{
			name:    "blank snippet",
			snippet: "   \n\t",
			aliases: []string{"python"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeLanguage(tt.snippet, normalizeAliases(tt.aliases)))
		})
	}
}
