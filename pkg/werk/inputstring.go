package werk

import (
	"fmt"

	"github.com/werktool/werk/internal/digest"
	"github.com/werktool/werk/internal/digest/sha384"
)

// InputString represents a string input of a task, e.g. an external
// dependency coordinate.
type InputString struct {
	value  string
	digest *digest.Digest
}

// NewInputString returns a new InputString.
func NewInputString(val string) *InputString {
	return &InputString{value: val}
}

// String returns its string representation (string:VAL).
func (i *InputString) String() string {
	return fmt.Sprintf("string:%s", i.value)
}

// Value returns the string that the input represents.
func (i *InputString) Value() string {
	return i.value
}

// Digest returns the previously calculated digest.
// If the digest wasn't calculated yet, it is calculated first.
func (i *InputString) Digest() (*digest.Digest, error) {
	if i.digest != nil {
		return i.digest, nil
	}

	return i.calcDigest()
}

func (i *InputString) calcDigest() (*digest.Digest, error) {
	sha := sha384.New()

	err := sha.AddBytes([]byte(i.value))
	if err != nil {
		return nil, err
	}

	i.digest = sha.Digest()

	return i.digest, nil
}

// AsInputStrings returns InputStrings for all elements in strs.
func AsInputStrings(strs ...string) []Input {
	result := make([]Input, 0, len(strs))

	for _, s := range strs {
		result = append(result, NewInputString(s))
	}

	return result
}
