package werk

import (
	"fmt"
	"path/filepath"

	"github.com/werktool/werk/pkg/cfg"
)

// SourceSet is a named grouping of input files of a component for one
// language.
type SourceSet struct {
	Name          string
	ComponentName string
	// Directory is the absolute path of the source set root directory.
	Directory string
	Language  string
	// FilePatterns are glob patterns relative to Directory.
	FilePatterns []string
}

func newSourceSet(sourceSetCfg *cfg.SourceSet, owner *Component) *SourceSet {
	return &SourceSet{
		Name:          sourceSetCfg.Name,
		ComponentName: owner.Name,
		Directory:     filepath.Join(owner.Path, sourceSetCfg.Directory),
		Language:      sourceSetCfg.Language,
		FilePatterns:  sourceSetCfg.Files,
	}
}

// QualifiedName returns the name of the source set prefixed with the name of
// the owning component.
func (s *SourceSet) QualifiedName() string {
	return fmt.Sprintf("%s.%s", s.ComponentName, s.Name)
}

// String returns QualifiedName().
func (s *SourceSet) String() string {
	return s.QualifiedName()
}
