package extract

import "fmt"

// ExtractionError reports that a PDF could not be opened or parsed.
// A readable PDF without a text layer is not an ExtractionError.
type ExtractionError struct {
	Op    string
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %q", e.Op, e.Path)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// recovered converts a parser panic into an error.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("pdf parser panic: %w", err)
	}
	return fmt.Errorf("pdf parser panic: %v", r)
}
