package graph

import (
	"cmp"
	"slices"

	"circuitsim/types"
)

// NodeID 节点索引,存在地时地节点为0
type NodeID int

// NoNode 无效节点
const NoNode NodeID = -1

// Ref 元件引脚引用
type Ref struct {
	ID  types.ComponentID // 元件
	Pin int               // 引脚序号
}

func compareRef(a, b Ref) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Pin, b.Pin)
}

// Graph 电路连接关系,拓扑变化时重建
type Graph struct {
	index   map[types.ComponentID]*types.Component
	ids     []types.ComponentID // 按ID排序
	pins    map[Ref]NodeID
	members [][]Ref // 每个节点上的引脚
	ground  NodeID
	chains  map[types.ComponentID]Chain
}

// New 根据元件引脚坐标与连线建立节点
func New(c *types.Circuit, grid float64) *Graph {
	g := &Graph{
		index:  c.Index(),
		pins:   map[Ref]NodeID{},
		ground: NoNode,
		chains: map[types.ComponentID]Chain{},
	}
	for id := range g.index {
		g.ids = append(g.ids, id)
	}
	slices.Sort(g.ids)

	set := newKeySet()
	keys := map[Ref]types.Key{}
	var groundKeys []types.Key
	for _, id := range g.ids {
		e := g.index[id]
		for _, t := range e.Terminals() {
			k := t.Point.Quantize(grid)
			keys[Ref{id, t.Index}] = k
			set.add(k)
			if e.Kind == types.KindGround {
				groundKeys = append(groundKeys, k)
			}
		}
	}
	// 连线合并两端节点
	for _, w := range c.Wires {
		var ends [2]types.Key
		for i, ep := range w.Ends() {
			ends[i] = ep.Point.Quantize(grid)
			if b := ep.Binding; b != nil {
				if k, ok := keys[Ref{b.Component, b.Terminal}]; ok {
					ends[i] = k
				}
			}
		}
		set.union(ends[0], ends[1])
	}
	// 所有地合并为参考节点
	for i := 1; i < len(groundKeys); i++ {
		set.union(groundKeys[0], groundKeys[i])
	}

	// 按根节点最小坐标排序分配连续索引
	groups := map[types.Key][]Ref{}
	low := map[types.Key]types.Key{}
	for ref, k := range keys {
		root := set.find(k)
		groups[root] = append(groups[root], ref)
		if l, ok := low[root]; !ok || compareKey(k, l) < 0 {
			low[root] = k
		}
	}
	roots := make([]types.Key, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	var groundRoot *types.Key
	if len(groundKeys) > 0 {
		r := set.find(groundKeys[0])
		groundRoot = &r
	}
	slices.SortFunc(roots, func(a, b types.Key) int {
		switch {
		case groundRoot != nil && a == *groundRoot:
			return -1
		case groundRoot != nil && b == *groundRoot:
			return 1
		}
		return compareKey(low[a], low[b])
	})
	g.members = make([][]Ref, len(roots))
	for i, r := range roots {
		refs := groups[r]
		slices.SortFunc(refs, compareRef)
		g.members[i] = refs
		for _, ref := range refs {
			g.pins[ref] = NodeID(i)
		}
	}
	if groundRoot != nil {
		g.ground = 0
	}

	for _, id := range g.ids {
		if g.index[id].Kind.IsSource() {
			if ch, ok := g.walkChain(id); ok {
				g.chains[id] = ch
			}
		}
	}
	return g
}

// Component 按ID获取元件
func (g *Graph) Component(id types.ComponentID) (*types.Component, bool) {
	e, ok := g.index[id]
	return e, ok
}

// IDs 全部元件ID(已排序)
func (g *Graph) IDs() []types.ComponentID { return g.ids }

// Nodes 节点数量
func (g *Graph) Nodes() int { return len(g.members) }

// Node 引脚所在节点
func (g *Graph) Node(id types.ComponentID, pin int) NodeID {
	if n, ok := g.pins[Ref{id, pin}]; ok {
		return n
	}
	return NoNode
}

// Members 节点上的全部引脚
func (g *Graph) Members(n NodeID) []Ref {
	if n < 0 || int(n) >= len(g.members) {
		return nil
	}
	return g.members[n]
}

// Neighbors 与指定引脚处于同一节点的其他引脚
func (g *Graph) Neighbors(id types.ComponentID, pin int) []Ref {
	var list []Ref
	for _, r := range g.Members(g.Node(id, pin)) {
		if r.ID != id {
			list = append(list, r)
		}
	}
	return list
}

// Adjacent 与元件任一引脚直接相连的元件
func (g *Graph) Adjacent(id types.ComponentID) []types.ComponentID {
	e, ok := g.index[id]
	if !ok {
		return nil
	}
	var list []types.ComponentID
	for pin := range e.TerminalCount() {
		for _, r := range g.Neighbors(id, pin) {
			list = append(list, r.ID)
		}
	}
	slices.Sort(list)
	return slices.Compact(list)
}

// Ground 参考节点
func (g *Graph) Ground() NodeID { return g.ground }

// IsGround 是否为参考节点
func (g *Graph) IsGround(n NodeID) bool { return n != NoNode && n == g.ground }

// Potentials 以地为零点,沿最短路径累加上一步元件电压估算各节点电位。
// 元件电压定义为引脚0相对引脚1的电位差,fixed 为已知电位的节点(如逻辑门输出),
// 无法到达的节点电位为0
func (g *Graph) Potentials(voltage func(types.ComponentID) float64, fixed map[NodeID]float64) []float64 {
	pot := make([]float64, len(g.members))
	seen := make([]bool, len(g.members))
	var queue []NodeID
	if g.ground != NoNode {
		seen[g.ground] = true
		queue = append(queue, g.ground)
	}
	seeds := make([]NodeID, 0, len(fixed))
	for n := range fixed {
		if n >= 0 && int(n) < len(g.members) && !seen[n] {
			seeds = append(seeds, n)
		}
	}
	slices.Sort(seeds)
	for _, n := range seeds {
		seen[n], pot[n] = true, fixed[n]
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, r := range g.members[n] {
			e := g.index[r.ID]
			if !e.Kind.IsTwoTerminal() {
				continue
			}
			next := g.Node(r.ID, 1-r.Pin)
			if next == NoNode || seen[next] {
				continue
			}
			seen[next] = true
			// 从引脚1侧走向引脚0侧电位升高
			if r.Pin == 1 {
				pot[next] = pot[n] + voltage(r.ID)
			} else {
				pot[next] = pot[n] - voltage(r.ID)
			}
			queue = append(queue, next)
		}
	}
	return pot
}

// Potential 单个节点电位估算
func (g *Graph) Potential(n NodeID, voltage func(types.ComponentID) float64) float64 {
	if n < 0 || int(n) >= len(g.members) {
		return 0
	}
	return g.Potentials(voltage, nil)[n]
}

func compareKey(a, b types.Key) int {
	if c := cmp.Compare(a[0], b[0]); c != 0 {
		return c
	}
	return cmp.Compare(a[1], b[1])
}

// keySet 坐标并查集
type keySet struct{ parent map[types.Key]types.Key }

func newKeySet() *keySet { return &keySet{parent: map[types.Key]types.Key{}} }

func (s *keySet) add(k types.Key) {
	if _, ok := s.parent[k]; !ok {
		s.parent[k] = k
	}
}

func (s *keySet) find(k types.Key) types.Key {
	s.add(k)
	for s.parent[k] != k {
		s.parent[k] = s.parent[s.parent[k]]
		k = s.parent[k]
	}
	return k
}

func (s *keySet) union(a, b types.Key) {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return
	}
	// 较小的坐标作为根,保证结果与遍历顺序无关
	if compareKey(ra, rb) < 0 {
		s.parent[rb] = ra
	} else {
		s.parent[ra] = rb
	}
}
