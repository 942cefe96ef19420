package simulation

import (
	"math"
	"math/cmplx"

	"circuitsim/element"
	"circuitsim/graph"
	"circuitsim/types"
)

// Frequencies 对数间隔的扫描频率,包含起止两点
func Frequencies(start, stop float64, perDecade int) []float64 {
	if start <= 0 || stop <= start || perDecade < 1 {
		return nil
	}
	logStart, logStop := math.Log10(start), math.Log10(stop)
	n := int(math.Ceil((logStop-logStart)*float64(perDecade))) + 1
	step := (logStop - logStart) / float64(n-1)
	out := make([]float64, n)
	for i := range n {
		out[i] = math.Pow(10, logStart+float64(i)*step)
	}
	out[n-1] = stop
	return out
}

// Sweep 第一个有闭合串联链的电压源的频率响应。
// 幅值取链中最后一个有阻抗模型的元件上的分压比
func Sweep(g *graph.Graph, freqs []float64) (FrequencyResponse, bool) {
	for _, id := range g.IDs() {
		e, _ := g.Component(id)
		if e.Kind != types.KindVoltageSource {
			continue
		}
		ch, ok := g.Chain(id)
		if !ok {
			continue
		}
		var parts []*types.Component
		for _, l := range ch.Links {
			c, _ := g.Component(l.ID)
			if _, ok := element.Impedance(c, 1); ok {
				parts = append(parts, c)
			}
		}
		if len(parts) == 0 {
			continue
		}
		resp := FrequencyResponse{Source: id, Output: parts[len(parts)-1].ID}
		for _, f := range freqs {
			resp.Data = append(resp.Data, respond(parts, f))
		}
		return resp, true
	}
	return FrequencyResponse{}, false
}

// respond 单个频率下的分压比与相位
func respond(parts []*types.Component, f float64) FrequencyPoint {
	var total, out complex128
	for i, c := range parts {
		z, _ := element.Impedance(c, f)
		total += z
		if i == len(parts)-1 {
			out = z
		}
	}
	p := FrequencyPoint{Frequency: f, Impedance: cmplx.Abs(total)}
	if cmplx.IsInf(total) || cmplx.Abs(total) == 0 {
		return p
	}
	h := out / total
	p.Magnitude = cmplx.Abs(h)
	p.Phase = cmplx.Phase(h) * 180 / math.Pi
	return p
}
