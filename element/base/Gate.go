package base

import (
	"circuitsim/element"
	"circuitsim/types"
)

// GateType 定义了逻辑门
var GateType = element.AddElement(types.KindLogicGate, &Gate{
	&element.Config{
		Name: "logic-gate",
		Pin:  []string{"in1", "in2", "out"},
		Params: []element.Param{
			{Name: "gate", Default: float64(types.GateInverter), Min: 0, Max: float64(types.GateXnor), Enum: true},
			{Name: "highVoltage", Unit: "V", Default: 5, Min: 0.5, Max: 50},
		},
	},
})

// Gate 是一个通用的逻辑门元件,非门只使用 in1
type Gate struct{ *element.Config }

// Transient 输入电位高于高电平一半视为 1,输出高电平或 0
func (Gate) Transient(ctx element.Context, c *types.Component) types.Values {
	p := c.Params.(*types.LogicGateParams)
	isHigh := func(i int) bool {
		return ctx.Potential(c.ID, i) > p.HighVoltage*0.5
	}
	a, b := isHigh(0), isHigh(1)
	var out bool
	switch p.Gate {
	case types.GateInverter:
		out = !a
	case types.GateAnd:
		out = a && b
	case types.GateNand:
		out = !(a && b)
	case types.GateOr:
		out = a || b
	case types.GateNor:
		out = !(a || b)
	case types.GateXor:
		out = a != b
	case types.GateXnor:
		out = a == b
	}
	v := 0.0
	if out {
		v = p.HighVoltage
	}
	return types.Values{Voltage: v, Pins: []float64{0, 0, 0}}
}
