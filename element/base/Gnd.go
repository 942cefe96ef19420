package base

import (
	"circuitsim/element"
	"circuitsim/types"
)

// GndType 定义元件
var GndType = element.AddElement(types.KindGround, &Gnd{
	&element.Config{
		Name: "ground",
		Pin:  []string{"ground"},
	},
})

// Gnd 地,电位与电流恒为0
type Gnd struct{ *element.Config }

// Transient 恒为0
func (Gnd) Transient(element.Context, *types.Component) types.Values {
	return types.Values{Pins: []float64{0}}
}
