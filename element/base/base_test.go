package base

import (
	"math"
	"testing"

	"circuitsim/element"
	"circuitsim/graph"
	"circuitsim/types"
)

// part 测试元件
type part struct {
	id     string
	kind   types.Kind
	params map[string]float64
}

// link 测试连线
type link struct {
	a  string
	ta int
	b  string
	tb int
}

// build 按顺序横向摆放元件并连线
func build(t *testing.T, parts []part, links ...link) *types.Circuit {
	t.Helper()
	c := &types.Circuit{}
	for i, p := range parts {
		e, err := element.New(p.id, p.kind, types.Point{X: float64(i) * 100})
		if err != nil {
			t.Fatalf("创建元件失败: %s", err)
		}
		for k, v := range p.params {
			if !e.Params.Set(k, v) {
				t.Fatalf("%s 没有参数 %s", p.id, k)
			}
		}
		if err := c.AddComponent(e); err != nil {
			t.Fatalf("添加元件失败: %s", err)
		}
	}
	for i, l := range links {
		if _, err := c.Connect(string(rune('a'+i)), l.a, l.ta, l.b, l.tb); err != nil {
			t.Fatalf("连线失败: %s", err)
		}
	}
	return c
}

// series 电源经过若干两端元件串联回到地
func series(t *testing.T, source part, parts ...part) *types.Circuit {
	t.Helper()
	all := append([]part{source}, parts...)
	all = append(all, part{id: "G1", kind: types.KindGround})
	links := []link{}
	prev := source.id
	for _, p := range parts {
		links = append(links, link{prev, outPin(prev, source.id), p.id, 0})
		prev = p.id
	}
	links = append(links, link{prev, 1, "G1", 0}, link{source.id, 1, "G1", 0})
	return build(t, all, links...)
}

func outPin(id, source string) int {
	if id == source {
		return 0
	}
	return 1
}

// step 在快照上执行一次全部规则并写回,reactive 元件同时更新 State
func step(t *testing.T, c *types.Circuit, mode element.Mode, tm float64) map[string]types.Values {
	t.Helper()
	ctx := element.NewFrame(graph.New(c, types.NodeGrid), mode, tm)
	out := map[string]types.Values{}
	for _, e := range c.Components {
		v, err := element.Update(ctx, e)
		if err != nil {
			t.Fatalf("%s 计算失败: %s", e.ID, err)
		}
		out[e.ID] = v
	}
	for _, e := range c.Components {
		e.SetValues(out[e.ID])
		e.State = out[e.ID].Clone()
	}
	return out
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// fakeContext 直接给定节点电位
type fakeContext struct {
	pot map[int]float64
}

func (fakeContext) Mode() element.Mode  { return element.ModeTransient }
func (fakeContext) Time() float64       { return 0 }
func (fakeContext) Graph() *graph.Graph { return nil }

func (f fakeContext) Potential(_ types.ComponentID, pin int) float64 { return f.pot[pin] }

func TestRegistry(t *testing.T) {
	for _, k := range types.Kinds() {
		config, ok := element.GetConfig(k)
		if !ok {
			t.Errorf("%s 未注册", k)
			continue
		}
		if config.PinNum() != k.TerminalCount() {
			t.Errorf("%s 引脚数量不正确", k)
		}
		if _, err := element.New("X", k, types.Point{}); err != nil {
			t.Errorf("%s 创建失败: %s", k, err)
		}
	}
	defer func() {
		if recover() == nil {
			t.Errorf("重复注册应触发 panic")
		}
	}()
	element.AddElement(types.KindResistor, &Resistor{&element.Config{Pin: []string{"a", "b"}}})
}
