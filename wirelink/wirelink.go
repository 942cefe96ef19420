package wirelink

import (
	"math"
	"slices"
	"strings"

	"circuitsim/types"
	"circuitsim/utils"
)

// precedence 决定连线电流来源的元件类型优先级,越小越优先
var precedence = map[types.Kind]int{
	types.KindCurrentSource: 0,
	types.KindVoltageSource: 1,
	types.KindResistor:      2,
	types.KindInductor:      3,
	types.KindCapacitor:     4,
	types.KindDiode:         5,
	types.KindTransistor:    6,
	types.KindLogicGate:     7,
}

// End 连线的一个线端
type End struct {
	Wire types.WireID `json:"wire"`
	End  int          `json:"end"` // 0 起点, 1 终点
}

// Report 修复结果,供编辑器提示
type Report struct {
	Repaired   []End           `json:"repaired,omitempty"`   // 重新绑定到附近引脚
	Unbound    []End           `json:"unbound,omitempty"`    // 无法修复已解除绑定
	Overloaded []types.Binding `json:"overloaded,omitempty"` // 连线过多的引脚
}

// Changed 是否改变了连接关系
func (r Report) Changed() bool { return len(r.Repaired) > 0 || len(r.Unbound) > 0 }

// Empty 无任何问题
func (r Report) Empty() bool { return !r.Changed() && len(r.Overloaded) == 0 }

// Linker 连线维护
type Linker struct {
	Tolerance float64 // 断线修复搜索半径
	MaxWires  int     // 非地引脚的最大连线数
}

// New 使用默认参数
func New() *Linker {
	return &Linker{Tolerance: types.ReconnectTolerance, MaxWires: types.MaxTerminalWires}
}

// valid 绑定的元件与引脚是否存在
func valid(index map[types.ComponentID]*types.Component, b *types.Binding) bool {
	e, ok := index[b.Component]
	return ok && b.Terminal >= 0 && b.Terminal < e.TerminalCount()
}

// Repair 修复失效的绑定: 在容差内寻找最近的引脚重新绑定,找不到则解除绑定并标记连线
func (l *Linker) Repair(c *types.Circuit) Report {
	var report Report
	index := c.Index()
	for _, w := range c.Wires {
		for i, ep := range w.Ends() {
			if ep.Binding == nil || valid(index, ep.Binding) {
				continue
			}
			end := End{Wire: w.ID, End: i}
			if b, p, ok := l.nearest(c, ep.Point); ok {
				utils.GetLogger().Debugf("连线 %s 端点 %d 重新绑定到 %s[%d]", w.ID, i, b.Component, b.Terminal)
				ep.Binding, ep.Point = &b, p
				report.Repaired = append(report.Repaired, end)
				continue
			}
			utils.GetLogger().Infof("连线 %s 端点 %d 失去连接", w.ID, i)
			ep.Binding = nil
			w.Flagged = true
			report.Unbound = append(report.Unbound, end)
		}
	}
	report.Overloaded = l.overloaded(c)
	return report
}

// nearest 容差内最近的引脚,距离相同时按元件ID与引脚序号
func (l *Linker) nearest(c *types.Circuit, p types.Point) (types.Binding, types.Point, bool) {
	best, at, dist := types.Binding{}, types.Point{}, math.Inf(1)
	ids := make([]types.ComponentID, 0, len(c.Components))
	index := c.Index()
	for id := range index {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		for _, t := range index[id].Terminals() {
			if d := p.Distance(t.Point); d <= l.Tolerance && d < dist {
				best, at, dist = types.Binding{Component: id, Terminal: t.Index}, t.Point, d
			}
		}
	}
	return best, at, !math.IsInf(dist, 1)
}

// overloaded 统计每个引脚的连线数
func (l *Linker) overloaded(c *types.Circuit) []types.Binding {
	count := map[types.Binding]int{}
	index := c.Index()
	for _, w := range c.Wires {
		for _, ep := range w.Ends() {
			if ep.Binding != nil && valid(index, ep.Binding) && index[ep.Binding.Component].Kind != types.KindGround {
				count[*ep.Binding]++
			}
		}
	}
	var list []types.Binding
	for b, n := range count {
		if n > l.MaxWires {
			list = append(list, b)
		}
	}
	slices.SortFunc(list, func(a, b types.Binding) int {
		if a.Component != b.Component {
			return strings.Compare(a.Component, b.Component)
		}
		return a.Terminal - b.Terminal
	})
	return list
}

// Propagate 按元件优先级为每条连线选取电流与电压,绑定端坐标跟随引脚。
// 只有两端都绑定到有效引脚的连线才重新取值,
// 存在悬空端的连线冻结在上一次的电流与电压,不清零
func (l *Linker) Propagate(c *types.Circuit) {
	index := c.Index()
	for _, w := range c.Wires {
		bound := true
		for _, ep := range w.Ends() {
			if ep.Binding == nil || !valid(index, ep.Binding) {
				bound = false
				continue
			}
			if p, ok := index[ep.Binding.Component].TerminalPoint(ep.Binding.Terminal); ok {
				ep.Point = p
			}
		}
		if !bound {
			continue
		}
		var chosen *types.Component
		var pin, side int
		for i, ep := range w.Ends() {
			e := index[ep.Binding.Component]
			rank, ok := precedence[e.Kind]
			if !ok {
				continue
			}
			if chosen == nil || rank < precedence[chosen.Kind] {
				chosen, pin, side = e, ep.Binding.Terminal, i
			}
		}
		if chosen == nil {
			continue
		}
		var current float64
		if pin < len(chosen.Values.Pins) {
			current = chosen.Values.Pins[pin]
		}
		// 电流以起点到终点为正,元件在起点时方向相反
		if side == 0 {
			current = -current
		}
		w.Current, w.Voltage = current, chosen.Values.Voltage
	}
}
