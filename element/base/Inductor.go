package base

import (
	"math"

	"circuitsim/element"
	"circuitsim/types"
)

// InductorType 定义元件
var InductorType = element.AddElement(types.KindInductor, &Inductor{
	&element.Config{
		Name: "inductor",
		Pin:  []string{"input", "output"},
		Params: []element.Param{
			{Name: "inductance", Unit: "H", Default: 1e-3, Min: 1e-9, Max: 100},
		},
	},
})

// Inductor 电感,上一步电流保存在 State 中
type Inductor struct{ *element.Config }

// Transient 电感元件的瞬态规则
// I = I0 + (V/L)·Δ,其中 V = Vs - I0·ΣR 为扣除链电阻压降后加在电感上的电压,
// 电流增量限制在不越过稳态值 Vs/ΣR;没有电源时 V = -I0·ΣR,电流逐步衰减
// 参数c: 当前电感元件,I0 取自 State
func (Inductor) Transient(ctx element.Context, c *types.Component) types.Values {
	inductance := param(c, "inductance")
	i0 := c.State.Current
	dt := types.StabilizationDelta
	s, ok := findSupply(ctx, c.ID)
	switch {
	case ok && s.source.Kind == types.KindVoltageSource:
		total := max(chainResistance(ctx, s.chain), types.MinResistance)
		vs := supplyVoltage(ctx, s) * s.link.Sign()
		v := vs - i0*total
		di := v / inductance * dt
		if target := vs / total; (di > 0 && i0+di > target) || (di < 0 && i0+di < target) {
			di = target - i0
		}
		return limit(v, i0+di)
	case ok && s.source.Kind == types.KindCurrentSource:
		i := supplyCurrent(ctx, s) * s.link.Sign()
		return limit(inductance*(i-i0)/dt, i)
	}
	return limit(0, i0*types.CapacitorDecay)
}

// DC 直流稳态下电感短路,电流为串联链电流
func (Inductor) DC(ctx element.Context, c *types.Component) types.Values {
	s, ok := findSupply(ctx, c.ID)
	if !ok {
		return types.Values{}
	}
	return limit(0, supplyCurrent(ctx, s)*s.link.Sign())
}

// AC 电压超前电流 90°: V = I·Xl·sin(ωt-φ+π/2)
func (l Inductor) AC(ctx element.Context, c *types.Component) types.Values {
	s, ok := findSupply(ctx, c.ID)
	if !ok {
		return l.Transient(ctx, c)
	}
	amp, phi, w, ok := phasor(ctx, s)
	if !ok {
		return l.Transient(ctx, c)
	}
	xl := w * param(c, "inductance")
	t, sign := ctx.Time(), s.link.Sign()
	return limit(amp*xl*math.Sin(w*t-phi+math.Pi/2)*sign, amp*math.Sin(w*t-phi)*sign)
}

// Impedance Xl = 2πfL
func (Inductor) Impedance(c *types.Component, f float64) complex128 {
	return complex(0, 2*math.Pi*f*param(c, "inductance"))
}
