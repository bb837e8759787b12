package result

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// SchemaError lists every violation found in a results document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("results do not match schema: %s", strings.Join(e.Violations, "; "))
}

// ValidateResults checks a results document against the embedded schema.
// Schema violations are returned as *SchemaError.
func ValidateResults(data []byte) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if res.Valid() {
		return nil
	}
	var violations []string
	for _, desc := range res.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Violations: violations}
}
