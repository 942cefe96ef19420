package rc

import (
	"fmt"

	"gonum.org/v1/plot"

	"circuitsim/element"
	"circuitsim/scope"
	"circuitsim/simulation"
	"circuitsim/types"
)

// Build 生成电源、电阻、电容、地串联的电路
func (c Circuit) Build() (*types.Circuit, error) {
	parts := []struct {
		id    string
		kind  types.Kind
		name  string
		value float64
	}{
		{"V1", types.KindVoltageSource, "amplitude", c.Voltage},
		{"R1", types.KindResistor, "resistance", c.Resistance},
		{"C1", types.KindCapacitor, "capacitance", c.Capacitance},
		{"G1", types.KindGround, "", 0},
	}
	out := &types.Circuit{}
	for i, p := range parts {
		e, err := element.New(p.id, p.kind, types.Point{X: float64(i) * 100})
		if err != nil {
			return nil, err
		}
		if p.name != "" && !e.Params.Set(p.name, p.value) {
			return nil, fmt.Errorf("%s 没有参数 %s", p.id, p.name)
		}
		if err := out.AddComponent(e); err != nil {
			return nil, err
		}
	}
	links := []struct {
		id string
		a  string
		ta int
		b  string
		tb int
	}{
		{"w1", "V1", 0, "R1", 0},
		{"w2", "R1", 1, "C1", 0},
		{"w3", "C1", 1, "G1", 0},
		{"w4", "V1", 1, "G1", 0},
	}
	for _, l := range links {
		if _, err := out.Connect(l.id, l.a, l.ta, l.b, l.tb); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Engine 用仿真引擎运行充电过程,返回电容积分器的原始输出
func (c Circuit) Engine(steps int) (Samples, error) {
	circuit, err := c.Build()
	if err != nil {
		return Samples{}, err
	}
	cfg := simulation.DefaultConfig()
	cfg.Manual = true
	s, err := simulation.New(cfg)
	if err != nil {
		return Samples{}, err
	}
	defer s.Close()
	if err := s.Start(circuit, element.ModeTransient, 1); err != nil {
		return Samples{}, err
	}
	out := Samples{Time: []float64{0}, Voltage: []float64{0}, Current: []float64{0}}
	for range steps {
		snap, err := s.Step()
		if err != nil {
			return out, err
		}
		c1, ok := snap.Component("C1")
		if !ok {
			return out, fmt.Errorf("快照中没有电容")
		}
		out.Time = append(out.Time, snap.Time)
		out.Voltage = append(out.Voltage, c1.State.Voltage)
		out.Current = append(out.Current, c1.State.Current)
	}
	return out, nil
}

// Plot 电容电压曲线,engine 非空时叠加引擎结果
func (c Circuit) Plot(m Mode, analytic Samples, engine *Samples) (*plot.Plot, error) {
	curves := []scope.Curve{{Name: m.String(), X: analytic.Time, Y: analytic.Voltage}}
	if engine != nil {
		curves = append(curves, scope.Curve{Name: "engine", X: engine.Time, Y: engine.Voltage})
	}
	title := fmt.Sprintf("RC R=%gΩ C=%gF τ=%gs", c.Resistance, c.Capacitance, c.Tau())
	return scope.NewPlot(title, "t (s)", "V", curves...)
}
