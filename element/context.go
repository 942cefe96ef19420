package element

import (
	"circuitsim/graph"
	"circuitsim/types"
)

// Context 规则计算上下文,提供上一步快照与连接关系
type Context interface {
	Mode() Mode                                      // 当前模式
	Time() float64                                   // 仿真时间
	Graph() *graph.Graph                             // 连接关系
	Potential(id types.ComponentID, pin int) float64 // 引脚节点电位估算
}

// Frame 单步计算上下文。规则执行期间元件的 Values 保持为上一步结果
type Frame struct {
	mode  Mode
	time  float64
	graph *graph.Graph
	pot   []float64
}

// NewFrame 创建单步上下文
func NewFrame(g *graph.Graph, mode Mode, t float64) *Frame {
	return &Frame{mode: mode, time: t, graph: g}
}

// Mode 当前模式
func (f *Frame) Mode() Mode { return f.mode }

// Time 仿真时间
func (f *Frame) Time() float64 { return f.time }

// Graph 连接关系
func (f *Frame) Graph() *graph.Graph { return f.graph }

// Potential 引脚节点电位,首次调用时计算全部节点
func (f *Frame) Potential(id types.ComponentID, pin int) float64 {
	n := f.graph.Node(id, pin)
	if n == graph.NoNode {
		return 0
	}
	if f.pot == nil {
		fixed := map[graph.NodeID]float64{}
		for _, id := range f.graph.IDs() {
			// 逻辑门输出视为对地的已知电位
			if e, _ := f.graph.Component(id); e.Kind == types.KindLogicGate {
				if out := f.graph.Node(id, 2); out != graph.NoNode {
					fixed[out] = e.Values.Voltage
				}
			}
		}
		f.pot = f.graph.Potentials(func(id types.ComponentID) float64 {
			if e, ok := f.graph.Component(id); ok {
				return e.Values.Voltage
			}
			return 0
		}, fixed)
	}
	return f.pot[n]
}
