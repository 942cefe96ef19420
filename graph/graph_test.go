package graph

import (
	"testing"

	"circuitsim/types"
)

func loadDivider(t *testing.T) *types.Circuit {
	t.Helper()
	c, err := types.LoadCircuit("../types/testdata/divider.json")
	if err != nil {
		t.Fatalf("加载电路失败: %s", err)
	}
	return c
}

func TestGraphNodes(t *testing.T) {
	g := New(loadDivider(t), types.NodeGrid)
	if g.Nodes() != 3 {
		t.Fatalf("节点数量不正确: 期望 3, 实际 %d", g.Nodes())
	}
	if !g.IsGround(g.Node("G1", 0)) || !g.IsGround(g.Node("V1", 1)) || !g.IsGround(g.Node("R2", 1)) {
		t.Errorf("地节点合并不正确")
	}
	if g.Node("R1", 1) != g.Node("R2", 0) {
		t.Errorf("R1 与 R2 应处于同一节点")
	}
	if g.Node("X", 0) != NoNode {
		t.Errorf("不存在的元件应返回 NoNode")
	}
	nb := g.Neighbors("R1", 0)
	if len(nb) != 1 || nb[0] != (Ref{"V1", 0}) {
		t.Errorf("邻接引脚不正确: %v", nb)
	}
	adj := g.Adjacent("R1")
	if len(adj) != 2 || adj[0] != "R2" || adj[1] != "V1" {
		t.Errorf("相邻元件不正确: %v", adj)
	}
}

func TestGraphChain(t *testing.T) {
	g := New(loadDivider(t), types.NodeGrid)
	ch, ok := g.Chain("V1")
	if !ok {
		t.Fatalf("未找到串联链")
	}
	want := []Link{{"R1", 0}, {"R2", 0}}
	if len(ch.Links) != len(want) {
		t.Fatalf("串联链长度不正确: %v", ch.Links)
	}
	for i := range want {
		if ch.Links[i] != want[i] {
			t.Errorf("串联链第%d项不正确: 期望 %v, 实际 %v", i, want[i], ch.Links[i])
		}
	}
	if list := g.ChainsOf("R2"); len(list) != 1 || list[0].Source != "V1" {
		t.Errorf("包含 R2 的串联链不正确: %v", list)
	}
	if _, ok := g.Chain("R1"); ok {
		t.Errorf("电阻不应有串联链")
	}
}

func TestGraphDanglingBranch(t *testing.T) {
	c := loadDivider(t)
	r0, err := types.NewComponent("R0", types.KindResistor, types.Point{X: 100, Y: 100})
	if err != nil {
		t.Fatalf("创建元件失败: %s", err)
	}
	if err := c.AddComponent(r0); err != nil {
		t.Fatalf("添加元件失败: %s", err)
	}
	if _, err := c.Connect("w5", "V1", 0, "R0", 0); err != nil {
		t.Fatalf("连线失败: %s", err)
	}
	g := New(c, types.NodeGrid)
	ch, ok := g.Chain("V1")
	if !ok {
		t.Fatalf("悬空分支不应阻断串联链")
	}
	want := []Link{{"R1", 0}, {"R2", 0}}
	if len(ch.Links) != len(want) {
		t.Fatalf("串联链长度不正确: %v", ch.Links)
	}
	for i := range want {
		if ch.Links[i] != want[i] {
			t.Errorf("串联链第%d项不正确: 期望 %v, 实际 %v", i, want[i], ch.Links[i])
		}
	}
	if _, in := ch.Find("R0"); in {
		t.Errorf("悬空元件不应出现在串联链中")
	}
	if list := g.ChainsOf("R1"); len(list) != 1 {
		t.Errorf("R1 应属于 V1 的串联链: %v", list)
	}
}

func TestGraphOpenChain(t *testing.T) {
	c := loadDivider(t)
	c.DeleteWire("w3")
	g := New(c, types.NodeGrid)
	if _, ok := g.Chain("V1"); ok {
		t.Errorf("断开的电路不应有串联链")
	}
	if len(g.Loops(0)) != 0 {
		t.Errorf("断开的电路不应有回路")
	}
}

func TestGraphLoops(t *testing.T) {
	g := New(loadDivider(t), types.NodeGrid)
	loops := g.Loops(types.MaxHops)
	if len(loops) != 1 {
		t.Fatalf("回路数量不正确: %v", loops)
	}
	volt := map[types.ComponentID]float64{"V1": 10, "R1": 5, "R2": 5}
	var sum float64
	for _, l := range loops[0] {
		sum += l.Sign() * volt[l.ID]
	}
	if sum != 0 {
		t.Errorf("回路电压和应为0, 实际 %v", sum)
	}
}

func TestGraphPotentials(t *testing.T) {
	g := New(loadDivider(t), types.NodeGrid)
	volt := map[types.ComponentID]float64{"V1": 10, "R1": 6, "R2": 4}
	lookup := func(id types.ComponentID) float64 { return volt[id] }
	if v := g.Potential(g.Node("V1", 0), lookup); v != 10 {
		t.Errorf("电源正极电位不正确: 期望 10, 实际 %v", v)
	}
	if v := g.Potential(g.Node("R2", 0), lookup); v != 4 {
		t.Errorf("中点电位不正确: 期望 4, 实际 %v", v)
	}
	if v := g.Potential(g.Ground(), lookup); v != 0 {
		t.Errorf("地电位应为0, 实际 %v", v)
	}
}

func TestGraphUnboundEndpoint(t *testing.T) {
	c := loadDivider(t)
	w, _ := c.Wire("w2")
	// 悬空线端落在引脚坐标上仍然连通
	w.End.Binding = nil
	g := New(c, types.NodeGrid)
	if g.Node("R1", 1) != g.Node("R2", 0) {
		t.Errorf("坐标重合的悬空线端应连通")
	}
	w.End.Point = types.Point{X: 500, Y: 500}
	g = New(c, types.NodeGrid)
	if g.Node("R1", 1) == g.Node("R2", 0) {
		t.Errorf("远离引脚的悬空线端不应连通")
	}
	if g.Nodes() != 4 {
		t.Errorf("节点数量不正确: 期望 4, 实际 %d", g.Nodes())
	}
}

func TestGraphFixedPotential(t *testing.T) {
	c := loadDivider(t)
	c.DeleteComponent("G1")
	c.DeleteWire("w3")
	c.DeleteWire("w4")
	g := New(c, types.NodeGrid)
	if g.Ground() != NoNode {
		t.Fatalf("没有地元件时不应有参考节点")
	}
	volt := func(id types.ComponentID) float64 { return map[types.ComponentID]float64{"R1": 2}[id] }
	pot := g.Potentials(volt, map[NodeID]float64{g.Node("R1", 0): 3})
	if v := pot[g.Node("R1", 1)]; v != 1 {
		t.Errorf("由已知电位推算不正确: 期望 1, 实际 %v", v)
	}
}
