package werk

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/werktool/werk/internal/digest"
	"github.com/werktool/werk/internal/digest/sha384"
)

// Inputs are the resolved inputs of a task.
type Inputs struct {
	inputs []Input
	digest *digest.Digest
}

// NewInputs returns a new Inputs.
func NewInputs(in []Input) *Inputs {
	return &Inputs{inputs: in}
}

// Inputs returns all stored inputs.
func (in *Inputs) Inputs() []Input {
	return in.inputs
}

// Digest returns a summarized digest over all inputs.
// On the first call the digest is calculated, on subsequent calls the stored
// digest is returned.
func (in *Inputs) Digest() (*digest.Digest, error) {
	if in.digest != nil {
		return in.digest, nil
	}

	digests := make([]*digest.Digest, len(in.inputs))

	for i, input := range in.inputs {
		d, err := input.Digest()
		if err != nil {
			return nil, fmt.Errorf("calculating digest for %q failed: %w", input, err)
		}

		digests[i] = d
	}

	totalDigest, err := sha384.Sum(digests)
	if err != nil {
		return nil, err
	}

	in.digest = totalDigest

	return in.digest, nil
}

// Sort orders the inputs alphabetically by their string representation.
func (in *Inputs) Sort() {
	slices.SortFunc(in.inputs, func(a, b Input) int {
		return cmp.Compare(a.String(), b.String())
	})
}
