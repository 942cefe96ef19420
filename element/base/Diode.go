package base

import (
	"math"

	"circuitsim/element"
	"circuitsim/types"
)

// DiodeType 定义元件
var DiodeType = element.AddElement(types.KindDiode, &Diode{
	&element.Config{
		Name: "diode",
		Pin:  []string{"anode", "cathode"},
		Params: []element.Param{
			{Name: "forwardVoltage", Unit: "V", Default: 0.7, Min: 0.1, Max: 5},
			{Name: "saturationCurrent", Unit: "A", Default: 1e-12, Min: 1e-18, Max: 1e-6},
		},
	},
})

// Diode 二极管,阈值模型
type Diode struct{ *element.Config }

// Transient 二极管元件的瞬态规则
// 外加电压按阳极到阴极方向取符号:
//   - 超过导通压降 Vf 时电压钳位在 Vf,电流按肖克利方程计算
//   - 0 到 Vf 之间按实际电压代入肖克利方程
//   - 反向偏置只有反向饱和电流 -Is
// 参数c: 当前二极管元件,读取 forwardVoltage 与 saturationCurrent
func (Diode) Transient(ctx element.Context, c *types.Component) types.Values {
	vf := param(c, "forwardVoltage")
	is := param(c, "saturationCurrent")
	s, ok := findSupply(ctx, c.ID)
	if !ok {
		return types.Values{}
	}
	applied := supplyVoltage(ctx, s) * s.link.Sign()
	switch {
	case applied > vf:
		return limit(vf, shockley(vf, is))
	case applied >= 0:
		return limit(applied, shockley(applied, is))
	}
	return limit(applied, -is)
}

// shockley I = Is·(e^(V/Vt)-1),指数前电压限幅
func shockley(v, is float64) float64 {
	return is * (math.Exp(min(v, types.DiodeExponentLimit)/types.ThermalVoltage) - 1)
}
