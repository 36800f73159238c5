package postgres

import (
	"fmt"
	"strings"
)

type queryError struct {
	Query     string
	Arguments []any
	Err       error
}

func (e *queryError) Unwrap() error {
	return e.Err
}

func (e *queryError) Error() string {
	return fmt.Sprintf("%s\nquery:\n---\n%s\n---\narguments: %s",
		e.Err,
		strings.TrimSpace(e.Query),
		strArgList(e.Arguments...),
	)
}

func newQueryError(query string, err error, args ...any) *queryError {
	return &queryError{
		Query:     query,
		Arguments: args,
		Err:       err,
	}
}

func strArgList(args ...any) string {
	var result strings.Builder

	result.WriteRune('[')

	for i, arg := range args {
		fmt.Fprintf(&result, "'%v'", arg)

		if i < len(args)-1 {
			result.WriteString(", ")
		}
	}

	result.WriteRune(']')

	return result.String()
}
