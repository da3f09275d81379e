package app

import (
	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/modules/arithmetic"
	"github.com/vk/flowgrid/modules/colorvec"
	"github.com/vk/flowgrid/modules/constant"
	"github.com/vk/flowgrid/modules/expression"
	"github.com/vk/flowgrid/modules/logic"
	"github.com/vk/flowgrid/modules/timing"
)

// coreModules is the definitive list of kind libraries compiled into the
// flowgrid binary.
var coreModules = []catalog.Module{
	arithmetic.Module{},
	colorvec.Module{},
	constant.Module{},
	expression.Module{},
	logic.Module{},
	timing.Module{},
}
