package werk

import (
	"github.com/werktool/werk/pkg/cfg/resolver"
)

const (
	rootVar = "{{ .root }}"
	nameVar = "{{ .name }}"
	uuidVar = "{{ uuid }}"
)

// defaultComponentCfgResolvers returns the resolvers that are applied on
// component configuration values.
func defaultComponentCfgResolvers(rootPath, componentName string) resolver.List {
	return resolver.List{
		&resolver.StrReplacement{Old: rootVar, New: rootPath},
		&resolver.StrReplacement{Old: nameVar, New: componentName},
		&resolver.UUIDVar{Old: uuidVar},
		&resolver.EnvVar{},
	}
}
