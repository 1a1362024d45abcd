package review

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
  "summary": "Solid change with one risky query.",
  "overall_score": 90,
  "files": [
    {
      "path": "src/Main.java",
      "score": 8,
      "issues": [
        {
          "severity": "critical",
          "category": "security",
          "line": 42,
          "title": "SQL injection",
          "description": "User input is concatenated into the query.",
          "suggestion": "Use a prepared statement."
        },
        {
          "severity": "low",
          "category": "style",
          "line": null,
          "title": "Naming",
          "description": "Prefer descriptive names.",
          "suggestion": null
        }
      ],
      "strengths": ["Clear structure"],
      "recommendations": ["Add tests"]
    }
  ]
}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"prose wrapped", "Here you go:\n{\"a\":1}\nThanks!", `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"no braces", "no json here", "", false},
		{"reversed", "} then {", "", false},
		{"only open", "{", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponse_Valid(t *testing.T) {
	r, err := ParseResponse("Sure, here is the review:\n" + validReply + "\nLet me know.")
	require.NoError(t, err)

	score, ok := r.Score()
	require.True(t, ok)
	assert.Equal(t, 90, score)
	assert.False(t, r.Degraded())
	require.Len(t, r.Files, 1)

	f := r.Files[0]
	assert.Equal(t, "src/Main.java", f.Path)
	assert.Equal(t, 8, f.Score)
	require.Len(t, f.Issues, 2)
	assert.Equal(t, SeverityCritical, f.Issues[0].Severity)
	assert.Equal(t, 42, *f.Issues[0].Line)
	assert.Nil(t, f.Issues[1].Line)
	assert.Empty(t, f.Issues[1].Suggestion)
	assert.Equal(t, 1, r.CriticalCount())
}

func TestParseResponse_NoJSON(t *testing.T) {
	_, err := ParseResponse("I am unable to review this code.")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseResponse_MultipleObjects(t *testing.T) {
	_, err := ParseResponse(`{"summary":"a"} and {"summary":"b"}`)
	assert.Error(t, err)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"invalid severity", `{"summary":"s","overall_score":50,"files":[{"path":"a","score":5,"issues":[{"severity":"urgent","category":"bug","title":"t","description":"d"}]}]}`},
		{"invalid category", `{"summary":"s","overall_score":50,"files":[{"path":"a","score":5,"issues":[{"severity":"low","category":"typo","title":"t","description":"d"}]}]}`},
		{"unknown top-level field", `{"summary":"s","overall_score":50,"files":[],"verdict":"ship it"}`},
		{"unknown issue field", `{"summary":"s","overall_score":50,"files":[{"path":"a","score":5,"issues":[{"severity":"low","category":"bug","title":"t","description":"d","confidence":0.9}]}]}`},
		{"missing score", `{"summary":"s","files":[]}`},
		{"score out of range", `{"summary":"s","overall_score":150,"files":[]}`},
		{"file score out of range", `{"summary":"s","overall_score":50,"files":[{"path":"a","score":11,"issues":[]}]}`},
		{"missing file path", `{"summary":"s","overall_score":50,"files":[{"score":5,"issues":[]}]}`},
		{"string score", `{"summary":"s","overall_score":"90","files":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)

			var se *SchemaError
			if assert.True(t, errors.As(err, &se)) {
				assert.NotEmpty(t, se.Errors)
			}
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"summary": "s",`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParse_NormalizesSlices(t *testing.T) {
	r, err := Parse([]byte(`{"summary":"s","overall_score":70,"files":[{"path":"a.go","score":7,"issues":[]}]}`))
	require.NoError(t, err)
	require.Len(t, r.Files, 1)
	assert.NotNil(t, r.Files[0].Strengths)
	assert.NotNil(t, r.Files[0].Recommendations)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"summary":"Error parsing AI response","files":[],"error":"no JSON object found in response","raw_response":"nope"}`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.True(t, r.Degraded())
	assert.Equal(t, "nope", r.RawResponse)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParse_FractionalLineNumber(t *testing.T) {
	reply := `{"summary":"s","overall_score":70,"files":[{"path":"A.java","score":7,
		"issues":[{"severity":"high","category":"bug","line":12.0,"title":"t","description":"d"}],
		"strengths":[],"recommendations":[]}]}`

	r, err := Parse([]byte(reply))
	require.NoError(t, err)
	require.Len(t, r.Files[0].Issues, 1)
	issue := r.Files[0].Issues[0]
	require.True(t, issue.HasLine())
	assert.Equal(t, 12, *issue.Line)
}

func TestParse_IssueUnknownFieldRejected(t *testing.T) {
	var issue Issue
	err := json.Unmarshal([]byte(`{"severity":"low","category":"style","title":"t","extra":1}`), &issue)
	assert.Error(t, err)
}
