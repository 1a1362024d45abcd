package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/critic/internal/review"
)

// JSONWriter outputs the review as indented JSON. Markup characters in
// model text are written literally.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, r *review.Review) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
