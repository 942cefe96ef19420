package base

import (
	"math"

	"circuitsim/element"
	"circuitsim/types"
)

// ResistorType 定义元件
var ResistorType = element.AddElement(types.KindResistor, &Resistor{
	&element.Config{
		Name: "resistor",                  // 元件名称,与电路文件中的 type 一致
		Pin:  []string{"input", "output"}, // 引脚名称,电阻有两个引脚
		Params: []element.Param{
			{Name: "resistance", Unit: "Ω", Default: 1000, Min: 1e-3, Max: 1e9}, // 默认1kΩ
		},
	},
})

// Resistor 电阻元件结构体,继承element.Config
// 不求解节点方程,按所在串联链的分压关系估算电压,再由欧姆定律得到电流
type Resistor struct{ *element.Config }

// Transient 电阻元件的瞬态规则
// 电压源驱动时 V = Vs·R/ΣR,方向由电阻在链中的进入引脚决定;电流源驱动时 V = Is·R
// 找不到驱动电源(悬空或不在任何串联链中)时输出全0,结果限幅在 ±100V/±1A
// 参数ctx: 上一步快照,用于查找串联链与电源
// 参数c: 当前电阻元件,读取 resistance 参数
func (Resistor) Transient(ctx element.Context, c *types.Component) types.Values {
	r := param(c, "resistance")
	s, ok := findSupply(ctx, c.ID)
	if !ok {
		return types.Values{}
	}
	var v, i float64
	switch s.source.Kind {
	case types.KindVoltageSource:
		total := max(chainResistance(ctx, s.chain), types.MinResistance)
		v = supplyVoltage(ctx, s) * r / total * s.link.Sign()
		i = v / max(r, types.MinResistance)
	case types.KindCurrentSource:
		i = supplyCurrent(ctx, s) * s.link.Sign()
		v = i * r
	}
	return limit(v, i)
}

// AC 交流稳态规则
// 链电流 i(t) = |Vs|/|Z|·sin(ωt-φ),Z 为串联链阻抗,电阻电压与电流同相
// 电源不是交流波形时退回瞬态规则
func (r Resistor) AC(ctx element.Context, c *types.Component) types.Values {
	s, ok := findSupply(ctx, c.ID)
	if !ok {
		return types.Values{}
	}
	amp, phi, w, ok := phasor(ctx, s)
	if !ok {
		return r.Transient(ctx, c)
	}
	i := amp * math.Sin(w*ctx.Time()-phi) * s.link.Sign()
	return limit(i*param(c, "resistance"), i)
}

// Impedance 纯电阻
func (Resistor) Impedance(c *types.Component, _ float64) complex128 {
	return complex(param(c, "resistance"), 0)
}
