// Package jobdesc resolves the optional job description a resume is compared against.
package jobdesc

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a job description.
type Source struct {
	// Value is an inline job description provided via flags or form fields.
	Value string
	// File points to a file containing the job description. When set it takes
	// precedence over Value.
	File string
}

// Load returns the resolved job description. When File is set it takes precedence
// over Value and must not be empty. The result is always trimmed. An empty string
// means no job description was supplied.
func Load(src Source) (string, error) {
	file := strings.TrimSpace(src.File)
	if file == "" {
		return strings.TrimSpace(src.Value), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading job description from file %q: %w", file, err)
	}

	desc := strings.TrimSpace(string(data))
	if desc == "" {
		return "", fmt.Errorf("job description file %q is empty", file)
	}

	return desc, nil
}
