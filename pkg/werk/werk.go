// Package werk implements a declarative build-model engine for
// mono-repositories.
//
// Components are declared in configuration files. A registry holds the
// declared entities, a task graph is derived from them and an executor runs
// the tasks in dependency order, skipping tasks whose inputs are unchanged
// since their last successful run.
package werk

// ComponentCfgFile is the name of component configuration files.
const ComponentCfgFile = ".component.toml"

// RepositoryCfgFile is the name of the repository configuration file.
const RepositoryCfgFile = ".werk.toml"
