package cfg

// Binary describes a build output of a component.
type Binary struct {
	Name    string   `toml:"name" comment:"Binary name"`
	Path    string   `toml:"path" comment:"Path of the produced artifact, relative to the component directory"`
	Command []string `toml:"command" comment:"Command producing the artifact.\n The first element is the command, the following its arguments."`
}

func (b *Binary) resolve(resolver Resolver) error {
	var err error

	if b.Path, err = resolver.Resolve(b.Path); err != nil {
		return fieldErrorWrap(err, "path")
	}

	for i, elem := range b.Command {
		if b.Command[i], err = resolver.Resolve(elem); err != nil {
			return fieldErrorWrap(err, "command")
		}
	}

	return nil
}

func (b *Binary) validate() error {
	if err := validateName(b.Name); err != nil {
		return fieldErrorWrap(err, "name")
	}

	if len(b.Path) == 0 {
		return newFieldError("can not be empty", "path")
	}

	if len(b.Command) == 0 {
		return newFieldError("can not be empty", "command")
	}

	return nil
}
