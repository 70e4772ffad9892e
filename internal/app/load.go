package app

import (
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/hcl_adapter"
	"github.com/vk/transitionsim/internal/yaml_adapter"
)

// DefaultLoader reads HCL and YAML simulation files. Where both formats
// are present, YAML files are merged over HCL files.
func DefaultLoader() config.Loader {
	return config.MultiLoader{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
}
