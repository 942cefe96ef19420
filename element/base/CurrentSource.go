package base

import (
	"circuitsim/element"
	"circuitsim/types"
)

// CurrentSourceType 定义元件
var CurrentSourceType = element.AddElement(types.KindCurrentSource, &CurrentSource{
	&element.Config{
		Name: "current-source",
		Pin:  []string{"positive", "negative"},
		Params: []element.Param{
			{Name: "current", Unit: "A", Default: 0.01, Min: -10, Max: 10},
		},
	},
})

// CurrentSource 电流源,电流从正极流出为正
type CurrentSource struct{ *element.Config }

// Transient I 为参数值,V = I·ΣR
func (CurrentSource) Transient(ctx element.Context, c *types.Component) types.Values {
	i := param(c, "current")
	var v float64
	if ch, ok := ctx.Graph().Chain(c.ID); ok {
		v = i * chainResistance(ctx, ch)
	}
	v = element.Clamp(v, -types.VoltageLimit, types.VoltageLimit)
	return sourceValues(v, i)
}
