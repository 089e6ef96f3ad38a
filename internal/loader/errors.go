package loader

import (
	"fmt"

	"github.com/tphakala/parkbio/internal/errors"
)

// ParseError describes a malformed input table. Line is 1-based and counts
// the header; Column is the column name, empty when the problem is not tied
// to a single column.
type ParseError struct {
	File   string
	Line   int
	Column string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("%s:%d: column %q: %s", e.File, e.Line, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %s", e.File, e.Column, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorCategory implements errors.CategorizedError
func (e *ParseError) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryFileParsing
}
