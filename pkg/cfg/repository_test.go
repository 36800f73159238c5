package cfg

import (
	"path/filepath"
	"testing"
)

func TestExampleRepositoryIsValid(t *testing.T) {
	r := ExampleRepository()
	if err := r.Validate(); err != nil {
		t.Error("example repository conf fails validation: ", err)
	}
}

func TestExampleRepositoryWrittenAndReadCfgIsValid(t *testing.T) {
	tmpfileName := filepath.Join(t.TempDir(), "repository.toml")

	r := ExampleRepository()
	if err := r.Validate(); err != nil {
		t.Error("example conf fails validation: ", err)
	}

	if err := r.ToFile(tmpfileName); err != nil {
		t.Fatal("writing conf to file failed: ", err)
	}

	rRead, err := RepositoryFromFile(tmpfileName)
	if err != nil {
		t.Fatal("reading conf from file failed: ", err)
	}

	if err := rRead.Validate(); err != nil {
		t.Error("validating conf from file failed: ", err)
	}
}

func TestRepositoryValidateFailsOnMissingDiscoverDirs(t *testing.T) {
	r := ExampleRepository()
	r.Discover.Dirs = nil

	if err := r.Validate(); err == nil {
		t.Error("validation succeeded on a config without discover dirs")
	}
}

func TestRepositoryValidateFailsOnWrongConfigVersion(t *testing.T) {
	r := ExampleRepository()
	r.ConfigVersion = Version + 1

	if err := r.Validate(); err == nil {
		t.Error("validation succeeded on a config with an incompatible config_version")
	}
}
