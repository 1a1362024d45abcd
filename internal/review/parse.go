package review

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var reviewSchema string

var (
	schemaLoader = gojsonschema.NewStringLoader(reviewSchema)
	validate     = validator.New()
)

// ErrNoJSON is returned when a reply contains no brace-delimited object.
var ErrNoJSON = errors.New("no JSON object found in response")

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError lists the ways a reply violates the review schema.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "response does not match review schema: " + strings.Join(parts, "; ")
}

// ExtractJSON returns the substring from the first '{' to the last '}' of
// text. It reports false when no such pair exists.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseResponse extracts the review object from a model reply and validates
// it. Any failure is returned as an error; callers degrade on it.
func ParseResponse(text string) (Review, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return Review{}, ErrNoJSON
	}
	return Parse([]byte(raw))
}

// Parse validates data against the review schema, decodes it strictly and
// checks the decoded value's field constraints.
func Parse(data []byte) (Review, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Review{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		se := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			se.Errors = append(se.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return Review{}, se
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var r Review
	if err := dec.Decode(&r); err != nil {
		return Review{}, fmt.Errorf("decoding review: %w", err)
	}
	if err := validate.Struct(r); err != nil {
		return Review{}, fmt.Errorf("validating review: %w", err)
	}

	normalize(&r)
	return r, nil
}

// UnmarshalJSON accepts an integral line number written with a fraction
// (12.0) and otherwise decodes an Issue strictly.
func (i *Issue) UnmarshalJSON(data []byte) error {
	type plain Issue
	aux := struct {
		*plain
		Line *float64 `json:"line"`
	}{plain: (*plain)(i)}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}

	i.Line = nil
	if aux.Line != nil {
		n := int(*aux.Line)
		if float64(n) != *aux.Line {
			return fmt.Errorf("line %v is not a whole number", *aux.Line)
		}
		i.Line = &n
	}
	return nil
}

// normalize replaces nil slices so serialised reviews always carry arrays.
func normalize(r *Review) {
	if r.Files == nil {
		r.Files = []FileReview{}
	}
	for i := range r.Files {
		f := &r.Files[i]
		if f.Issues == nil {
			f.Issues = []Issue{}
		}
		if f.Strengths == nil {
			f.Strengths = []string{}
		}
		if f.Recommendations == nil {
			f.Recommendations = []string{}
		}
	}
}

// Load reads a previously saved review without schema checks, so degraded
// reviews round-trip too.
func Load(path string) (Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Review{}, fmt.Errorf("reading review: %w", err)
	}
	var r Review
	if err := json.Unmarshal(data, &r); err != nil {
		return Review{}, fmt.Errorf("parsing review %s: %w", path, err)
	}
	normalize(&r)
	return r, nil
}
