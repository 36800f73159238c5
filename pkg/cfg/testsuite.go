package cfg

// TestSuite stores the [TestSuite] section of a test-suite component
// configuration. It references the component and binary under test.
type TestSuite struct {
	Component string   `toml:"component" comment:"Name of the component under test"`
	Binary    string   `toml:"binary" comment:"Name of the binary under test"`
	Command   []string `toml:"command" comment:"Command running the test suite.\n The first element is the command, the following its arguments."`
}

func (t *TestSuite) resolve(resolver Resolver) error {
	var err error

	for i, elem := range t.Command {
		if t.Command[i], err = resolver.Resolve(elem); err != nil {
			return fieldErrorWrap(err, "command")
		}
	}

	return nil
}

func (t *TestSuite) validate() error {
	if err := validateName(t.Component); err != nil {
		return fieldErrorWrap(err, "component")
	}

	if err := validateName(t.Binary); err != nil {
		return fieldErrorWrap(err, "binary")
	}

	if len(t.Command) == 0 {
		return newFieldError("can not be empty", "command")
	}

	return nil
}
