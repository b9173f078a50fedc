package app

import (
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/specialistvlad/nodegraph/modules/env_vars"
	"github.com/specialistvlad/nodegraph/modules/flow"
	"github.com/specialistvlad/nodegraph/modules/print"
	"github.com/specialistvlad/nodegraph/modules/stdconv"
)

// coreModules is the definitive list of all modules that are compiled into
// the nodegraph binary.
var coreModules = []registry.Module{
	&stdconv.Module{},
	&flow.Module{},
	&print.Module{},
	&env_vars.Module{},
}
