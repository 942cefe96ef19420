package base

import (
	"math"

	"circuitsim/element"
	"circuitsim/types"
)

// VoltageType 定义元件
var VoltageType = element.AddElement(types.KindVoltageSource, &Voltage{
	&element.Config{
		Name: "voltage-source",
		Pin:  []string{"positive", "negative"},
		Params: []element.Param{
			{Name: "waveform", Default: float64(types.WfDC), Min: 0, Max: float64(types.WfSawtooth), Enum: true},
			{Name: "amplitude", Unit: "V", Default: 5, Min: -1000, Max: 1000},
			{Name: "frequency", Unit: "Hz", Default: 60, Min: 0, Max: 1e6},
			{Name: "dcOffset", Unit: "V", Default: 0, Min: -1000, Max: 1000},
		},
	},
})

// Voltage 电压源。电流按电源惯例记录,从正极流出为正
type Voltage struct{ *element.Config }

// Transient 输出波形电压,电流沿用上一步(由节点电流校正收敛)
func (Voltage) Transient(ctx element.Context, c *types.Component) types.Values {
	p := c.Params.(*types.VoltageSourceParams)
	v := element.Round(waveform(p, ctx.Time(), ctx.Mode()), 6)
	return sourceValues(v, c.Values.Current)
}

// DC 直流分量,电流为自身串联链电流
func (Voltage) DC(ctx element.Context, c *types.Component) types.Values {
	p := c.Params.(*types.VoltageSourceParams)
	v := waveform(p, ctx.Time(), element.ModeDC)
	var i float64
	if ch, ok := ctx.Graph().Chain(c.ID); ok {
		i = v / max(chainResistance(ctx, ch), types.MinResistance)
	}
	return sourceValues(v, i)
}

// AC 交流稳态下电流取串联链的相量电流 |Vs|/|Z|·sin(ωt-φ),与链上元件使用同一个阻抗。
// 直流波形或链阻抗无法计算时退回直流规则,没有串联链时沿用上一步电流
func (Voltage) AC(ctx element.Context, c *types.Component) types.Values {
	p := c.Params.(*types.VoltageSourceParams)
	v := element.Round(waveform(p, ctx.Time(), ctx.Mode()), 6)
	ch, ok := ctx.Graph().Chain(c.ID)
	if !ok {
		return sourceValues(v, c.Values.Current)
	}
	amp, phi, w, ok := phasor(ctx, supply{chain: ch, source: c})
	if !ok {
		return sourceValues(v, v/max(chainResistance(ctx, ch), types.MinResistance))
	}
	return sourceValues(v, amp*math.Sin(w*ctx.Time()-phi))
}

// sourceValues 电源引脚电流: 正极流出,负极流入
func sourceValues(v, i float64) types.Values {
	return types.Values{Voltage: v, Current: i, Pins: []float64{-i, i}}
}
