package base

import (
	"circuitsim/element"
	"circuitsim/types"
)

// TransistorType 定义元件
var TransistorType = element.AddElement(types.KindTransistor, &Transistor{
	&element.Config{
		Name: "transistor",
		Pin:  []string{"base", "collector", "emitter"}, // 基极、集电极、发射极
		Params: []element.Param{
			{Name: "polarity", Default: float64(types.NPN), Min: 0, Max: float64(types.PNP), Enum: true},
			{Name: "beta", Default: 100, Min: 1, Max: 1000},
			{Name: "vbeThreshold", Unit: "V", Default: 0.7, Min: 0.1, Max: 2},
		},
	},
})

// Transistor 双极型晶体管,只区分截止与放大
type Transistor struct{ *element.Config }

// Transient 由节点电位估算 Vbe 与 Vce,放大区 Ib = (Vbe-Vth)/1kΩ, Ic = β·Ib。
// Values.Voltage 为 Vce, Values.Current 为 Ic
func (Transistor) Transient(ctx element.Context, c *types.Component) types.Values {
	p := c.Params.(*types.TransistorParams)
	vb := ctx.Potential(c.ID, 0)
	vc := ctx.Potential(c.ID, 1)
	ve := ctx.Potential(c.ID, 2)
	vce := vc - ve
	// PNP 按镜像处理
	sign := 1.0
	if p.Polarity == types.PNP {
		sign = -1
	}
	drive := (vb - ve) * sign
	var ib, ic, ie float64
	if drive > p.VbeThreshold && vce*sign > 0 {
		ib = element.Clamp((drive-p.VbeThreshold)/types.TransistorBaseOhms, 0, types.BaseCurrentLimit)
		ic = element.Clamp(p.Beta*ib, 0, types.CurrentLimit)
		ie = element.Clamp(ib+ic, 0, types.CurrentLimit)
		ib, ic, ie = ib*sign, ic*sign, ie*sign
	}
	return types.Values{
		Voltage: element.Clamp(vce, -types.VoltageLimit, types.VoltageLimit),
		Current: ic,
		Pins:    []float64{ib, ic, -ie},
	}
}
