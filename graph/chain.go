package graph

import (
	"slices"
	"strings"

	"circuitsim/types"
)

// Link 串联链或回路中的一个元件
type Link struct {
	ID    types.ComponentID // 元件
	Entry int               // 进入引脚,从另一个引脚离开
}

// Sign 沿遍历方向的电压符号,从引脚0进入为正
func (l Link) Sign() float64 {
	if l.Entry == 0 {
		return 1
	}
	return -1
}

// Chain 电源正极出发经过两端元件回到负极的串联链
type Chain struct {
	Source types.ComponentID
	Links  []Link
}

// Find 元件在链中的位置
func (c Chain) Find(id types.ComponentID) (Link, bool) {
	for _, l := range c.Links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// walkChain 从电源引脚0所在节点出发深度优先搜索,按ID顺序尝试未访问的两端元件,
// 走进死胡同(悬空元件、断开的分支)时回退换下一个元件,直到回到电源引脚1所在节点。
// 电源不能作为链中元件,同一节点不重复经过,跳数受 types.MaxHops 限制
func (g *Graph) walkChain(source types.ComponentID) (Chain, bool) {
	start, target := g.Node(source, 0), g.Node(source, 1)
	if start == NoNode || target == NoNode || start == target {
		return Chain{}, false
	}
	ch := Chain{Source: source}
	visited := map[types.ComponentID]bool{source: true}
	nodes := map[NodeID]bool{start: true}
	if !g.searchChain(start, target, types.MaxHops, visited, nodes, &ch.Links) {
		return Chain{}, false
	}
	return ch, true
}

func (g *Graph) searchChain(cur, target NodeID, hops int, visited map[types.ComponentID]bool, nodes map[NodeID]bool, links *[]Link) bool {
	if cur == target && len(*links) > 0 {
		return true
	}
	if hops <= 0 {
		return false
	}
	for _, r := range g.members[cur] {
		e := g.index[r.ID]
		if visited[r.ID] || !e.Kind.IsTwoTerminal() || e.Kind.IsSource() {
			continue
		}
		next := g.Node(r.ID, 1-r.Pin)
		if next == NoNode || (nodes[next] && next != target) {
			continue
		}
		visited[r.ID], nodes[next] = true, true
		*links = append(*links, Link{ID: r.ID, Entry: r.Pin})
		if g.searchChain(next, target, hops-1, visited, nodes, links) {
			return true
		}
		*links = (*links)[:len(*links)-1]
		delete(visited, r.ID)
		delete(nodes, next)
	}
	return false
}

// Chain 电源的串联链
func (g *Graph) Chain(source types.ComponentID) (Chain, bool) {
	ch, ok := g.chains[source]
	return ch, ok
}

// ChainsOf 包含指定元件的全部串联链,按电源ID排序
func (g *Graph) ChainsOf(id types.ComponentID) []Chain {
	var list []Chain
	for _, src := range g.ids {
		ch, ok := g.chains[src]
		if !ok {
			continue
		}
		if _, in := ch.Find(id); in {
			list = append(list, ch)
		}
	}
	return list
}

// Loops 查找经过每个两端元件的一个简单回路(深度优先,按ID顺序),按元件集合去重
func (g *Graph) Loops(maxHops int) [][]Link {
	if maxHops <= 0 {
		maxHops = types.MaxHops
	}
	var loops [][]Link
	seen := map[string]bool{}
	for _, id := range g.ids {
		if !g.index[id].Kind.IsTwoTerminal() {
			continue
		}
		start, end := g.Node(id, 1), g.Node(id, 0)
		if start == NoNode || end == NoNode || start == end {
			continue
		}
		path := []Link{{ID: id, Entry: 0}}
		visited := map[types.ComponentID]bool{id: true}
		nodes := map[NodeID]bool{start: true}
		if !g.searchLoop(start, end, maxHops, visited, nodes, &path) {
			continue
		}
		key := loopKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		loops = append(loops, slices.Clone(path))
	}
	return loops
}

func (g *Graph) searchLoop(cur, end NodeID, hops int, visited map[types.ComponentID]bool, nodes map[NodeID]bool, path *[]Link) bool {
	if cur == end {
		return true
	}
	if hops <= 1 {
		return false
	}
	for _, r := range g.members[cur] {
		if visited[r.ID] || !g.index[r.ID].Kind.IsTwoTerminal() {
			continue
		}
		next := g.Node(r.ID, 1-r.Pin)
		if next == NoNode || (nodes[next] && next != end) {
			continue
		}
		visited[r.ID], nodes[next] = true, true
		*path = append(*path, Link{ID: r.ID, Entry: r.Pin})
		if g.searchLoop(next, end, hops-1, visited, nodes, path) {
			return true
		}
		*path = (*path)[:len(*path)-1]
		delete(visited, r.ID)
		delete(nodes, next)
	}
	return false
}

func loopKey(path []Link) string {
	ids := make([]string, len(path))
	for i, l := range path {
		ids[i] = l.ID
	}
	slices.Sort(ids)
	return strings.Join(ids, "\x00")
}
