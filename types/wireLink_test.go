package types

import (
	"errors"
	"math"
	"testing"
)

// newDivider 10V 电源串联两个 1k 电阻
func newDivider(t *testing.T) *Circuit {
	t.Helper()
	c := &Circuit{}
	add := func(id string, k Kind, x float64) *Component {
		e, err := NewComponent(id, k, Point{X: x})
		if err != nil {
			t.Fatalf("创建元件失败: %s", err)
		}
		if err := c.AddComponent(e); err != nil {
			t.Fatalf("添加元件失败: %s", err)
		}
		return e
	}
	add("V1", KindVoltageSource, 0).Params.Set("amplitude", 10)
	add("R1", KindResistor, 100).Params.Set("resistance", 1000)
	add("R2", KindResistor, 200).Params.Set("resistance", 1000)
	add("G1", KindGround, 300)
	for _, w := range []struct {
		id string
		a  string
		ta int
		b  string
		tb int
	}{
		{"w1", "V1", 0, "R1", 0},
		{"w2", "R1", 1, "R2", 0},
		{"w3", "R2", 1, "G1", 0},
		{"w4", "V1", 1, "G1", 0},
	} {
		if _, err := c.Connect(w.id, w.a, w.ta, w.b, w.tb); err != nil {
			t.Fatalf("连线失败: %s", err)
		}
	}
	return c
}

func TestCircuitConnect(t *testing.T) {
	c := newDivider(t)
	if err := c.Validate(); err != nil {
		t.Fatalf("校验失败: %s", err)
	}
	w, _ := c.Wire("w2")
	r1, _ := c.Component("R1")
	p, _ := r1.TerminalPoint(1)
	if w.Start.Point != p {
		t.Errorf("线端坐标不正确: 期望 %v, 实际 %v", p, w.Start.Point)
	}
	if _, err := c.Connect("w5", "R1", 0, "R9", 0); err == nil {
		t.Errorf("连接不存在的元件应返回错误")
	}
	if _, err := c.Connect("w5", "R1", 0, "R2", 7); !errors.Is(err, ErrBadTerminal) {
		t.Errorf("引脚越界应返回 ErrBadTerminal, 实际 %v", err)
	}
	if _, err := c.Connect("w1", "R1", 0, "R2", 0); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("重复连线ID应返回 ErrDuplicateID, 实际 %v", err)
	}
}

func TestCircuitValidate(t *testing.T) {
	t.Run("重复ID", func(t *testing.T) {
		c := newDivider(t)
		dup := c.Components[1].Clone()
		c.Components = append(c.Components, dup)
		if err := c.Validate(); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("期望 ErrDuplicateID, 实际 %v", err)
		}
	})
	t.Run("参数类型不符", func(t *testing.T) {
		c := newDivider(t)
		c.Components[1].Params = &CapacitorParams{}
		if err := c.Validate(); !errors.Is(err, ErrParamsKind) {
			t.Errorf("期望 ErrParamsKind, 实际 %v", err)
		}
	})
	t.Run("参数为空", func(t *testing.T) {
		c := newDivider(t)
		c.Components[0].Params = nil
		if err := c.Validate(); !errors.Is(err, ErrNilParams) {
			t.Errorf("期望 ErrNilParams, 实际 %v", err)
		}
	})
}

func TestCircuitClone(t *testing.T) {
	c := newDivider(t)
	c.Components[1].SetValues(Values{Voltage: 1, Current: 2, Pins: []float64{2, -2}})
	n := c.Clone()
	n.Components[1].Params.Set("resistance", 5)
	n.Components[1].Values.Pins[0] = 9
	n.Wires[0].Start.Binding.Terminal = 1
	if v, _ := c.Components[1].Params.Get("resistance"); v != 1000 {
		t.Errorf("复制后修改参数影响了原电路: %v", v)
	}
	if c.Components[1].Values.Pins[0] != 2 {
		t.Errorf("复制后修改引脚电流影响了原电路")
	}
	if c.Wires[0].Start.Binding.Terminal != 0 {
		t.Errorf("复制后修改绑定影响了原电路")
	}
	if c.Components[1].Values.Power != 2 {
		t.Errorf("功率不正确: 期望 2, 实际 %v", c.Components[1].Values.Power)
	}
}

func TestCircuitDelete(t *testing.T) {
	c := newDivider(t)
	if !c.DeleteComponent("R2") || c.DeleteComponent("R2") {
		t.Fatalf("删除元件结果不正确")
	}
	if w, _ := c.Wire("w2"); w.End.Binding == nil {
		t.Errorf("删除元件不应解除绑定")
	}
	if !c.DeleteWire("w2") {
		t.Errorf("删除连线失败")
	}
	if len(c.Wires) != 3 || len(c.Components) != 3 {
		t.Errorf("删除后数量不正确: %d %d", len(c.Components), len(c.Wires))
	}
}

func TestTerminalRotation(t *testing.T) {
	e, _ := NewComponent("R1", KindResistor, Point{X: 10, Y: 10})
	e.Rotate(1)
	p, _ := e.TerminalPoint(0)
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-(10-TerminalSpan)) > 1e-9 {
		t.Errorf("旋转后引脚坐标不正确: %v", p)
	}
	e.Rotate(-2)
	if e.Rotation != 270 {
		t.Errorf("旋转角度不正确: %v", e.Rotation)
	}
	if _, ok := e.TerminalPoint(2); ok {
		t.Errorf("电阻只有两个引脚")
	}
}

func TestParamsProperty(t *testing.T) {
	p := &VoltageSourceParams{}
	if !p.Set("DC_Offset", 1.5) || p.DCOffset != 1.5 {
		t.Errorf("属性名归一化失败")
	}
	if !p.Set("voltage", 3) || p.Amplitude != 3 {
		t.Errorf("别名 voltage 应写入幅值")
	}
	if p.Set("resistance", 1) {
		t.Errorf("未知属性应返回 false")
	}
	if _, err := NewParams(KindUnknown); err == nil {
		t.Errorf("未知类型应返回错误")
	}
}
