package transcript

import "fmt"

// DiagnosticKind classifies a recovered per-line or per-source failure.
type DiagnosticKind string

const (
	// DiagMalformedLine marks a line that is not valid JSON (or not a
	// JSON object).
	DiagMalformedLine DiagnosticKind = "malformed_line"

	// DiagUnrecognizedType marks a line whose type tag is unknown.
	DiagUnrecognizedType DiagnosticKind = "unrecognized_type"

	// DiagSchemaInvalid marks a recognized type with invalid or missing
	// fields.
	DiagSchemaInvalid DiagnosticKind = "schema_invalid"

	// DiagSourceError marks a whole source that could not be read
	// during a multi-source load.
	DiagSourceError DiagnosticKind = "source_error"
)

// Diagnostic describes one skipped line or failed source. Diagnostics
// are non-fatal: ingestion of subsequent lines and sources continues.
type Diagnostic struct {
	Source string
	// Line is the 0-based line number within Source. -1 for
	// source-level failures.
	Line    int
	Kind    DiagnosticKind
	Message string
}

func (d Diagnostic) String() string {
	if d.Line < 0 {
		return fmt.Sprintf("%s: %s: %s", d.Source, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.Source, d.Line, d.Kind, d.Message)
}
