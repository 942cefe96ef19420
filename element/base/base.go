package base

import (
	"math"
	"math/cmplx"
	"slices"

	"circuitsim/element"
	"circuitsim/graph"
	"circuitsim/types"
)

// param 读取参数
func param(c *types.Component, name string) float64 {
	v, _ := c.Params.Get(name)
	return v
}

// supply 元件所在串联链及驱动它的电源
type supply struct {
	chain  graph.Chain
	link   graph.Link       // 元件在链中的方向
	source *types.Component // 电源
}

// findSupply 查找驱动元件的电源: 直接相连的电压源优先,其次任意电压源,最后电流源
func findSupply(ctx element.Context, id types.ComponentID) (supply, bool) {
	g := ctx.Graph()
	adjacent := g.Adjacent(id)
	best, score := supply{}, math.MaxInt
	for _, ch := range g.ChainsOf(id) {
		src, ok := g.Component(ch.Source)
		if !ok {
			continue
		}
		s := 0
		if src.Kind != types.KindVoltageSource {
			s += 2
		}
		if !slices.Contains(adjacent, ch.Source) {
			s++
		}
		if s < score {
			link, _ := ch.Find(id)
			best, score = supply{chain: ch, link: link, source: src}, s
		}
	}
	return best, best.source != nil
}

// chainResistance 串联链电阻之和
func chainResistance(ctx element.Context, ch graph.Chain) float64 {
	var total float64
	for _, l := range ch.Links {
		if e, ok := ctx.Graph().Component(l.ID); ok && e.Kind == types.KindResistor {
			total += param(e, "resistance")
		}
	}
	return total
}

// chainImpedance 串联链在频率f下的阻抗,电容在f为0时开路
func chainImpedance(ctx element.Context, ch graph.Chain, f float64) complex128 {
	var z complex128
	for _, l := range ch.Links {
		e, ok := ctx.Graph().Component(l.ID)
		if !ok {
			continue
		}
		if zi, ok := element.Impedance(e, f); ok {
			if cmplx.IsInf(zi) {
				return zi
			}
			z += zi
		}
	}
	return z
}

// waveform 电压源在时刻t的输出,直流模式下取直流分量
func waveform(p *types.VoltageSourceParams, t float64, mode element.Mode) float64 {
	if p.Waveform == types.WfDC {
		return p.Amplitude
	}
	if mode == element.ModeDC {
		return p.DCOffset
	}
	phase := p.Frequency * t
	switch p.Waveform {
	case types.WfSine:
		return p.Amplitude*math.Sin(2*math.Pi*phase) + p.DCOffset
	case types.WfSquare:
		if math.Sin(2*math.Pi*phase) >= 0 {
			return p.Amplitude + p.DCOffset
		}
		return -p.Amplitude + p.DCOffset
	case types.WfTriangle:
		return p.Amplitude*(2/math.Pi)*math.Asin(math.Sin(2*math.Pi*phase)) + p.DCOffset
	case types.WfSawtooth:
		return p.Amplitude*2*(phase-math.Floor(phase+0.5)) + p.DCOffset
	}
	return 0
}

// supplyVoltage 电源当前电压,电流源返回其电流在链上产生的压降
func supplyVoltage(ctx element.Context, s supply) float64 {
	switch p := s.source.Params.(type) {
	case *types.VoltageSourceParams:
		return waveform(p, ctx.Time(), ctx.Mode())
	case *types.CurrentSourceParams:
		return p.Current * chainResistance(ctx, s.chain)
	}
	return 0
}

// supplyCurrent 串联链电流,沿电源正极流出方向为正
func supplyCurrent(ctx element.Context, s supply) float64 {
	switch p := s.source.Params.(type) {
	case *types.VoltageSourceParams:
		return waveform(p, ctx.Time(), ctx.Mode()) / max(chainResistance(ctx, s.chain), types.MinResistance)
	case *types.CurrentSourceParams:
		return p.Current
	}
	return 0
}

// phasor 交流模式下链电流幅值与阻抗相角,不是交流电源时 ok 为 false
func phasor(ctx element.Context, s supply) (amp, phi, w float64, ok bool) {
	p, isV := s.source.Params.(*types.VoltageSourceParams)
	if !isV || p.Waveform == types.WfDC || p.Frequency <= 0 {
		return 0, 0, 0, false
	}
	z := chainImpedance(ctx, s.chain, p.Frequency)
	if cmplx.IsInf(z) || cmplx.Abs(z) == 0 {
		return 0, 0, 0, false
	}
	return math.Abs(p.Amplitude) / cmplx.Abs(z), cmplx.Phase(z), 2 * math.Pi * p.Frequency, true
}

// limit 两端元件输出限幅
func limit(v, i float64) types.Values {
	return types.Values{
		Voltage: element.Clamp(v, -types.VoltageLimit, types.VoltageLimit),
		Current: element.Clamp(i, -types.CurrentLimit, types.CurrentLimit),
	}
}
