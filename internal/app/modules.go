package app

import (
	"github.com/specialistvlad/echoplug/internal/registry"
	"github.com/specialistvlad/echoplug/modules/greeting"
)

// coreModules is the definitive list of all modules that are compiled into
// the echoplug binary.
var coreModules = []registry.Module{
	&greeting.Module{},
}
