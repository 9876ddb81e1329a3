package app

import (
	"github.com/specialistvlad/voxview/internal/registry"
	"github.com/specialistvlad/voxview/modules/orthoslice"
	"github.com/specialistvlad/voxview/modules/outline"
	"github.com/specialistvlad/voxview/modules/slice"
	"github.com/specialistvlad/voxview/modules/volume"
)

// coreModules is the definitive list of all module variants that are
// compiled into the voxview binary.
var coreModules = []registry.Provider{
	outline.Provider{},
	slice.Provider{},
	orthoslice.Provider{},
	volume.Provider{},
}
