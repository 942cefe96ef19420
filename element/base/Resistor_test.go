package base

import (
	"errors"
	"math"
	"testing"

	"circuitsim/element"
	"circuitsim/graph"
	"circuitsim/types"
)

func dcSource(v float64) part {
	return part{id: "V1", kind: types.KindVoltageSource, params: map[string]float64{"amplitude": v}}
}

func resistor(id string, r float64) part {
	return part{id: id, kind: types.KindResistor, params: map[string]float64{"resistance": r}}
}

func TestResistor(t *testing.T) {
	c := series(t, dcSource(10), resistor("R1", 1000), resistor("R2", 1000))
	out := step(t, c, element.ModeTransient, 0)
	for _, id := range []string{"R1", "R2"} {
		v := out[id]
		if !near(v.Voltage, 5, 1e-9) {
			t.Errorf("%s 电压不正确: 期望 5, 实际 %v", id, v.Voltage)
		}
		if !near(v.Current, 0.005, 1e-12) {
			t.Errorf("%s 电流不正确: 期望 0.005, 实际 %v", id, v.Current)
		}
		if len(v.Pins) != 2 || v.Pins[0] != v.Current || v.Pins[1] != -v.Current {
			t.Errorf("%s 引脚电流不正确: %v", id, v.Pins)
		}
	}
	if out["V1"].Voltage != 10 {
		t.Errorf("电源电压不正确: %v", out["V1"].Voltage)
	}
}

func TestResistorReversed(t *testing.T) {
	// R1 反向接入,电压电流为负
	c := build(t, []part{dcSource(6), resistor("R1", 100), {id: "G1", kind: types.KindGround}},
		link{"V1", 0, "R1", 1}, link{"R1", 0, "G1", 0}, link{"V1", 1, "G1", 0})
	out := step(t, c, element.ModeTransient, 0)
	if !near(out["R1"].Voltage, -6, 1e-9) || !near(out["R1"].Current, -0.06, 1e-12) {
		t.Errorf("反向电阻结果不正确: %+v", out["R1"])
	}
}

func TestResistorClamp(t *testing.T) {
	c := series(t, dcSource(1000), resistor("R1", 10), resistor("R2", 1))
	out := step(t, c, element.ModeTransient, 0)
	if out["R1"].Voltage != types.VoltageLimit {
		t.Errorf("电压应限幅到 %v, 实际 %v", types.VoltageLimit, out["R1"].Voltage)
	}
	if out["R2"].Current != types.CurrentLimit {
		t.Errorf("电流应限幅到 %v, 实际 %v", types.CurrentLimit, out["R2"].Current)
	}
}

func TestResistorCurrentSource(t *testing.T) {
	src := part{id: "I1", kind: types.KindCurrentSource, params: map[string]float64{"current": 0.002}}
	c := series(t, src, resistor("R1", 1000))
	out := step(t, c, element.ModeTransient, 0)
	if !near(out["R1"].Voltage, 2, 1e-9) || !near(out["R1"].Current, 0.002, 1e-12) {
		t.Errorf("电流源驱动结果不正确: %+v", out["R1"])
	}
	if !near(out["I1"].Voltage, 2, 1e-9) || out["I1"].Current != 0.002 {
		t.Errorf("电流源结果不正确: %+v", out["I1"])
	}
}

func TestResistorOpen(t *testing.T) {
	c := build(t, []part{dcSource(5), resistor("R1", 100)}, link{"V1", 0, "R1", 0})
	out := step(t, c, element.ModeTransient, 0)
	if !out["R1"].Zero() {
		t.Errorf("开路电阻应为0: %+v", out["R1"])
	}
}

func TestUpdateDeterministic(t *testing.T) {
	c := series(t, dcSource(10), resistor("R1", 330), resistor("R2", 470))
	first := step(t, c.Clone(), element.ModeTransient, 0.05)
	second := step(t, c.Clone(), element.ModeTransient, 0.05)
	for id, v := range first {
		if v.Voltage != second[id].Voltage || v.Current != second[id].Current {
			t.Errorf("%s 两次计算结果不同: %+v %+v", id, v, second[id])
		}
	}
}

func TestUpdateErrors(t *testing.T) {
	c := series(t, dcSource(10), resistor("R1", 1000))
	ctx := element.NewFrame(graph.New(c, types.NodeGrid), element.ModeTransient, 0)

	unknown := &types.Component{ID: "X", Kind: types.KindUnknown}
	if _, err := element.Update(ctx, unknown); !errors.Is(err, element.ErrUnregistered) {
		t.Errorf("未注册类型应返回 ErrUnregistered, 实际 %v", err)
	}
	r1, _ := c.Component("R1")
	bad := r1.Clone()
	bad.Params = &types.CapacitorParams{Capacitance: 1}
	if _, err := element.Update(ctx, bad); !errors.Is(err, element.ErrParamsMismatch) {
		t.Errorf("参数类型不符应返回 ErrParamsMismatch, 实际 %v", err)
	}

	r1.Params.Set("resistance", math.NaN())
	v, err := element.Update(ctx, r1)
	if err != nil {
		t.Fatalf("计算失败: %s", err)
	}
	if v.Voltage != 0 || v.Current != 0 || v.Power != 0 {
		t.Errorf("非有限值应置零: %+v", v)
	}
}

func TestSanitize(t *testing.T) {
	r, _ := element.New("R1", types.KindResistor, types.Point{})
	r.Params.Set("resistance", -5)
	if err := element.Sanitize(r); err != nil {
		t.Fatalf("校验失败: %s", err)
	}
	if v, _ := r.Params.Get("resistance"); v != 1000 {
		t.Errorf("非法电阻应恢复默认值, 实际 %v", v)
	}

	v, _ := element.New("V1", types.KindVoltageSource, types.Point{})
	v.Params.Set("waveform", 2.5)
	v.Params.Set("frequency", math.Inf(1))
	v.Params.Set("amplitude", -12)
	element.Sanitize(v)
	p := v.Params.(*types.VoltageSourceParams)
	if p.Waveform != types.WfDC || p.Frequency != 60 || p.Amplitude != -12 {
		t.Errorf("电源参数校验结果不正确: %+v", p)
	}

	g := &types.Component{ID: "G1", Kind: types.KindGround}
	if err := element.Sanitize(g); err != nil || g.Params == nil {
		t.Errorf("缺失参数应填充默认值: %v", err)
	}
	bad := &types.Component{ID: "C1", Kind: types.KindCapacitor, Params: &types.ResistorParams{}}
	if err := element.Sanitize(bad); !errors.Is(err, element.ErrParamsMismatch) {
		t.Errorf("参数类型不符应返回错误, 实际 %v", err)
	}
}
