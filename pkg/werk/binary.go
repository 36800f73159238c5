package werk

import (
	"fmt"
	"path/filepath"

	"github.com/werktool/werk/pkg/cfg"
)

// Binary is a build output artifact of a component.
type Binary struct {
	Name          string
	ComponentName string
	// Path is the absolute path of the produced artifact.
	Path    string
	Command []string
}

func newBinary(binaryCfg *cfg.Binary, owner *Component) *Binary {
	return &Binary{
		Name:          binaryCfg.Name,
		ComponentName: owner.Name,
		Path:          filepath.Join(owner.Path, binaryCfg.Path),
		Command:       binaryCfg.Command,
	}
}

// QualifiedName returns the name of the binary prefixed with the name of the
// owning component.
func (b *Binary) QualifiedName() string {
	return fmt.Sprintf("%s.%s", b.ComponentName, b.Name)
}

// String returns QualifiedName().
func (b *Binary) String() string {
	return b.QualifiedName()
}

// TaskID returns the ID of the task that builds the binary.
func (b *Binary) TaskID() string {
	return fmt.Sprintf("%s.%s%s", b.ComponentName, taskNamePackagePrefix, b.Name)
}
