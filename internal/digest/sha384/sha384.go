// Package sha384 computes sha384 digests of files and byte streams.
package sha384

import (
	"bytes"
	"crypto/sha512"
	"fmt"
	stdhash "hash"
	"io"
	"os"
	"sort"

	"github.com/werktool/werk/internal/digest"
)

// Hash offers an interface to add data for computing a digest.
type Hash struct {
	hash stdhash.Hash
}

// New returns a sha384.Hash to compute a digest.
func New() *Hash {
	return &Hash{hash: sha512.New384()}
}

// AddFile reads a file and adds its content to the hash.
func (h *Hash) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file failed: %w", err)
	}

	defer f.Close()

	if _, err := io.Copy(h.hash, f); err != nil {
		return fmt.Errorf("reading file failed: %w", err)
	}

	return nil
}

// AddBytes adds bytes to the hash.
func (h *Hash) AddBytes(b []byte) error {
	_, err := h.hash.Write(b)
	if err != nil {
		return fmt.Errorf("writing to hash stream failed: %w", err)
	}

	return nil
}

// Digest returns the digest of the hash.
func (h *Hash) Digest() *digest.Digest {
	return &digest.Digest{
		Algorithm: digest.SHA384,
		Sum:       h.hash.Sum(nil),
	}
}

// Sum aggregates multiple digests to a single SHA384 digest.
// The digests are sorted before they are aggregated, the result is
// independent of their order.
func Sum(digests []*digest.Digest) (*digest.Digest, error) {
	hash := New()
	buf := bytes.Buffer{}

	sort.Slice(digests, func(i, j int) bool {
		if digests[i].Algorithm != digests[j].Algorithm {
			return digests[i].Algorithm < digests[j].Algorithm
		}

		return bytes.Compare(digests[i].Sum, digests[j].Sum) == -1
	})

	for _, d := range digests {
		buf.WriteString(d.String())
	}

	if err := hash.AddBytes(buf.Bytes()); err != nil {
		return nil, err
	}

	return hash.Digest(), nil
}
