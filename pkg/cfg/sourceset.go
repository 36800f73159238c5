package cfg

// SourceSet is a named grouping of input files for one language.
type SourceSet struct {
	Name      string   `toml:"name" comment:"Source set name"`
	Directory string   `toml:"directory" comment:"Root directory of the source set, relative to the component directory"`
	Language  string   `toml:"language" comment:"Language tag of the sources"`
	Files     []string `toml:"files" comment:"Glob patterns matching the files of the source set, relative to directory.\n '**' matches files and directories recursively."`
}

func (s *SourceSet) resolve(resolver Resolver) error {
	var err error

	if s.Directory, err = resolver.Resolve(s.Directory); err != nil {
		return fieldErrorWrap(err, "directory")
	}

	for i, pattern := range s.Files {
		if s.Files[i], err = resolver.Resolve(pattern); err != nil {
			return fieldErrorWrap(err, "files")
		}
	}

	return nil
}

func (s *SourceSet) validate() error {
	if err := validateName(s.Name); err != nil {
		return fieldErrorWrap(err, "name")
	}

	if len(s.Directory) == 0 {
		return newFieldError("can not be empty", "directory")
	}

	if len(s.Files) == 0 {
		return newFieldError("can not be empty", "files")
	}

	return nil
}
