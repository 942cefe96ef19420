package simulation

import (
	"math"
	"testing"

	"circuitsim/graph"
	"circuitsim/types"
)

func TestFrequencies(t *testing.T) {
	f := Frequencies(10, 10e3, 10)
	if len(f) != 31 || f[0] != 10 || f[30] != 10e3 {
		t.Fatalf("扫描点错误: %d %v", len(f), f)
	}
	if !near(f[10], 100, 1e-9) || !near(f[20], 1000, 1e-6) {
		t.Errorf("十倍频程点错误: %v %v", f[10], f[20])
	}
	for i := 1; i < len(f); i++ {
		if ratio := f[i] / f[i-1]; !near(ratio, math.Pow(10, 0.1), 1e-9) {
			t.Fatalf("应为对数等间隔: %v", ratio)
		}
	}
	for _, bad := range [][3]float64{{0, 10, 5}, {100, 10, 5}, {10, 100, 0}} {
		if f := Frequencies(bad[0], bad[1], int(bad[2])); f != nil {
			t.Errorf("非法参数应返回空: %v", bad)
		}
	}
}

func TestSweepRL(t *testing.T) {
	// RL 串联取电感电压为高通
	c := series(t,
		part(t, "V1", types.KindVoltageSource, 0, map[string]float64{"waveform": float64(types.WfSine)}),
		part(t, "R1", types.KindResistor, 100, map[string]float64{"resistance": 100}),
		part(t, "L1", types.KindInductor, 200, map[string]float64{"inductance": 0.01}),
	)
	resp, ok := Sweep(graph.New(c, types.NodeGrid), Frequencies(10, 10e3, 5))
	if !ok || resp.Output != "L1" {
		t.Fatalf("扫描失败: %+v", resp)
	}
	for i := 1; i < len(resp.Data); i++ {
		if resp.Data[i].Magnitude <= resp.Data[i-1].Magnitude {
			t.Fatalf("高通幅值应随频率上升: %+v", resp.Data[i])
		}
	}
	// 截止频率 R/(2πL) ≈ 1.59kHz
	fc := 100 / (2 * math.Pi * 0.01)
	p := respond([]*types.Component{c.Components[1], c.Components[2]}, fc)
	if !near(p.Magnitude, 1/math.Sqrt2, 1e-9) || !near(p.Phase, 45, 1e-9) {
		t.Errorf("截止点错误: %+v", p)
	}
	if !near(p.Impedance, 100*math.Sqrt2, 1e-9) {
		t.Errorf("截止点阻抗错误: %v", p.Impedance)
	}
}

func TestSweepWithoutSource(t *testing.T) {
	c := &types.Circuit{}
	r, _ := types.NewComponent("R1", types.KindResistor, types.Point{})
	c.AddComponent(r)
	if _, ok := Sweep(graph.New(c, types.NodeGrid), Frequencies(10, 100, 1)); ok {
		t.Errorf("没有电源时不应有频率响应")
	}
}
