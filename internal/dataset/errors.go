package dataset

import (
	"fmt"
	"strings"
)

// maxReportedProblems caps how many problems ValidationError.Error renders.
const maxReportedProblems = 10

// Problem is one invalid field of one input record.
type Problem struct {
	// Index is the 0-based record position. For CSV it excludes the header.
	Index  int
	Field  string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("record %d: %s: %s", p.Index, p.Field, p.Reason)
}

// ValidationError reports every malformed record of a snapshot.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d invalid record(s)", len(e.Problems))
	for i, p := range e.Problems {
		if i == maxReportedProblems {
			fmt.Fprintf(&b, "; and %d more", len(e.Problems)-maxReportedProblems)
			break
		}
		b.WriteString("; ")
		b.WriteString(p.String())
	}
	return b.String()
}

// problems collects per-record failures while decoding.
type problems []Problem

func (ps *problems) add(index int, field, reason string) {
	*ps = append(*ps, Problem{Index: index, Field: field, Reason: reason})
}

func (ps problems) err() error {
	if len(ps) == 0 {
		return nil
	}
	return &ValidationError{Problems: ps}
}
