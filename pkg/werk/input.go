package werk

import "github.com/werktool/werk/internal/digest"

// Input represents an input of a task.
type Input interface {
	Digest() (*digest.Digest, error)
	String() string
}
