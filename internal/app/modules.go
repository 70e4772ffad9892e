package app

import (
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/modules/emissions"
	"github.com/vk/transitionsim/modules/finance"
	"github.com/vk/transitionsim/modules/grid"
	"github.com/vk/transitionsim/modules/renewable"
)

// coreModules is the definitive list of all components that are compiled
// into the transitionsim binary.
var coreModules = []registry.Module{
	renewable.Module{},
	grid.Module{},
	finance.Module{},
	emissions.Module{},
}
