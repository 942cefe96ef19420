package base

import (
	"math"
	"math/cmplx"

	"circuitsim/element"
	"circuitsim/types"
)

// CapacitorType 定义元件
var CapacitorType = element.AddElement(types.KindCapacitor, &Capacitor{
	&element.Config{
		Name: "capacitor",
		Pin:  []string{"positive", "negative"},
		Params: []element.Param{
			{Name: "capacitance", Unit: "F", Default: 1e-6, Min: 1e-12, Max: 1},
		},
	},
})

// Capacitor 电容,上一步电压保存在 State 中
type Capacitor struct{ *element.Config }

// Transient 电容元件的瞬态规则
// 电压源驱动时以 τ = ΣR·C 向电源电压指数逼近: V = Vs + (V0-Vs)·e^(-Δ/τ),Δ 为固定步长
// 电流源驱动时 V = V0 + I·Δ/C;没有电源时每步乘以衰减系数缓慢放电
// 电流由相邻两步电压差得到 I = C·ΔV/Δ,电压保留6位小数,电流保留9位
// 参数ctx: 上一步快照
// 参数c: 当前电容元件,V0 取自 State 而不是校正后的 Values
func (Capacitor) Transient(ctx element.Context, c *types.Component) types.Values {
	capacitance := param(c, "capacitance")
	v0 := c.State.Voltage
	dt := types.StabilizationDelta
	var v float64
	s, ok := findSupply(ctx, c.ID)
	switch {
	case ok && s.source.Kind == types.KindVoltageSource:
		vs := supplyVoltage(ctx, s) * s.link.Sign()
		tau := max(chainResistance(ctx, s.chain), types.MinResistance) * capacitance
		v = vs + (v0-vs)*math.Exp(-dt/tau)
	case ok && s.source.Kind == types.KindCurrentSource:
		v = v0 + supplyCurrent(ctx, s)*s.link.Sign()*dt/capacitance
	default:
		v = v0 * types.CapacitorDecay
	}
	v = element.Clamp(v, -types.VoltageLimit, types.VoltageLimit)
	i := capacitance * (v - v0) / dt
	out := limit(v, i)
	out.Voltage = element.Round(out.Voltage, 6)
	out.Current = element.Round(out.Current, 9)
	return out
}

// DC 直流稳态下电容开路
func (Capacitor) DC(element.Context, *types.Component) types.Values {
	return types.Values{}
}

// AC 电压滞后电流 90°: V = I·Xc·sin(ωt-φ-π/2)
func (cp Capacitor) AC(ctx element.Context, c *types.Component) types.Values {
	s, ok := findSupply(ctx, c.ID)
	if !ok {
		return cp.Transient(ctx, c)
	}
	amp, phi, w, ok := phasor(ctx, s)
	if !ok {
		return cp.Transient(ctx, c)
	}
	xc := 1 / (w * param(c, "capacitance"))
	t, sign := ctx.Time(), s.link.Sign()
	return limit(amp*xc*math.Sin(w*t-phi-math.Pi/2)*sign, amp*math.Sin(w*t-phi)*sign)
}

// Impedance Xc = 1/(2πfC),直流开路
func (Capacitor) Impedance(c *types.Component, f float64) complex128 {
	w := 2 * math.Pi * f
	if w == 0 {
		return cmplx.Inf()
	}
	return complex(0, -1/(w*param(c, "capacitance")))
}
