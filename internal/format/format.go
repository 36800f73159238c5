// Package format outputs data in formatted table structures.
package format

// Formatter is an interface for formatters.
type Formatter interface {
	WriteRow(row ...any) error
	Flush() error
}
