package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/critic/internal/review"
)

func TestJSONWriter(t *testing.T) {
	out := render(t, &JSONWriter{}, sampleReview())

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(72), decoded["overall_score"])
	assert.NotContains(t, decoded, "error")
	assert.NotContains(t, decoded, "raw_response")
	assert.Contains(t, out, "\n  \"summary\"")
}

func TestJSONWriter_Degraded(t *testing.T) {
	r := review.Failed(assert.AnError)
	out := render(t, &JSONWriter{}, &r)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, assert.AnError.Error(), decoded["error"])
	assert.NotContains(t, decoded, "overall_score")
	assert.Equal(t, []interface{}{}, decoded["files"])
}

func TestJSONWriter_KeepsMarkupReadable(t *testing.T) {
	r := &review.Review{
		Summary:      "Use List<User> & check <nil> maps",
		OverallScore: intPtr(80),
		Files:        []review.FileReview{},
	}
	out := render(t, &JSONWriter{}, r)

	assert.Contains(t, out, `"Use List<User> & check <nil> maps"`)
	assert.NotContains(t, out, `\u003c`)
	assert.NotContains(t, out, `\u0026`)
}
