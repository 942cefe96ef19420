package kirchhoff

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"circuitsim/graph"
	"circuitsim/types"
)

// Corrector 单次回路电压与节点电流校正,不迭代求解
type Corrector struct {
	KVLThreshold float64 // 回路电压残差阈值
	KCLThreshold float64 // 节点电流残差阈值
	MaxHops      int     // 回路搜索最大跳数
}

// New 使用默认阈值
func New() *Corrector {
	return &Corrector{
		KVLThreshold: types.KVLThreshold,
		KCLThreshold: types.KCLThreshold,
		MaxHops:      types.MaxHops,
	}
}

// Result 校正统计
type Result struct {
	Loops       int     `json:"loops"`       // 回路数量
	KVLResidual float64 `json:"kvlResidual"` // 校正前最大回路残差
	KVLFixed    int     `json:"kvlFixed"`    // 超过阈值的回路数量
	Nodes       int     `json:"nodes"`       // 参与校正的节点数量
	KCLResidual float64 `json:"kclResidual"` // 校正前最大节点残差
	KCLFixed    int     `json:"kclFixed"`    // 超过阈值的节点数量
}

// Correct 先校正回路电压,再校正节点电流
func (k *Corrector) Correct(g *graph.Graph) Result {
	var res Result
	res.Loops, res.KVLResidual, res.KVLFixed = k.KVL(g)
	res.Nodes, res.KCLResidual, res.KCLFixed = k.KCL(g)
	return res
}

// branches 两端元件列索引
func branches(g *graph.Graph) ([]*types.Component, map[types.ComponentID]int) {
	var list []*types.Component
	col := map[types.ComponentID]int{}
	for _, id := range g.IDs() {
		e, _ := g.Component(id)
		if e.Kind.IsTwoTerminal() {
			col[id] = len(list)
			list = append(list, e)
		}
	}
	return list, col
}

// KVL 回路关联矩阵乘电压向量得到残差,超过阈值时把 -r/len(loop) 分给回路中的非电源元件。
// 所有修正基于同一电压向量计算
func (k *Corrector) KVL(g *graph.Graph) (loops int, maxResidual float64, fixed int) {
	list, col := branches(g)
	found := g.Loops(k.MaxHops)
	if len(found) == 0 || len(list) == 0 {
		return 0, 0, 0
	}
	b := mat.NewDense(len(found), len(list), nil)
	for i, loop := range found {
		for _, l := range loop {
			b.Set(i, col[l.ID], b.At(i, col[l.ID])+l.Sign())
		}
	}
	v := mat.NewVecDense(len(list), nil)
	for j, e := range list {
		v.SetVec(j, e.Values.Voltage)
	}
	var r mat.VecDense
	r.MulVec(b, v)

	delta := make([]float64, len(list))
	for i, loop := range found {
		ri := r.AtVec(i)
		maxResidual = max(maxResidual, math.Abs(ri))
		if math.Abs(ri) <= k.KVLThreshold {
			continue
		}
		fixed++
		corr := -ri / float64(len(loop))
		for _, l := range loop {
			j := col[l.ID]
			if list[j].Kind.IsSource() {
				continue
			}
			delta[j] += corr * l.Sign()
		}
	}
	for j, e := range list {
		if delta[j] == 0 {
			continue
		}
		e.Values.Voltage += delta[j]
		e.Values.Power = e.Values.Voltage * e.Values.Current
	}
	return len(found), maxResidual, fixed
}

// through 两端元件由引脚0流入的电流
func through(e *types.Component) float64 {
	if len(e.Values.Pins) > 0 {
		return e.Values.Pins[0]
	}
	return e.Values.Current
}

// setThrough 写回引脚0流入电流,电源按正极流出记录
func setThrough(e *types.Component, x float64) {
	e.Values.Pins = []float64{x, -x}
	if e.Kind.IsSource() {
		e.Values.Current = -x
	} else {
		e.Values.Current = x
	}
	e.Values.Power = e.Values.Voltage * e.Values.Current
}

// KCL 节点关联矩阵乘支路电流得到残差,只统计至少连接两个引脚的非地节点。
// 三端元件电流视为固定,超过阈值时残差平均分给节点上除电流源以外的两端元件
func (k *Corrector) KCL(g *graph.Graph) (nodes int, maxResidual float64, fixed int) {
	list, col := branches(g)
	var rows []graph.NodeID
	for n := range g.Nodes() {
		if id := graph.NodeID(n); !g.IsGround(id) && len(g.Members(id)) >= 2 {
			rows = append(rows, id)
		}
	}
	if len(rows) == 0 || len(list) == 0 {
		return 0, 0, 0
	}
	a := mat.NewDense(len(rows), len(list), nil)
	fixedIn := mat.NewVecDense(len(rows), nil)
	for i, n := range rows {
		for _, ref := range g.Members(n) {
			e, _ := g.Component(ref.ID)
			if j, ok := col[ref.ID]; ok {
				sign := 1.0
				if ref.Pin == 1 {
					sign = -1
				}
				a.Set(i, j, a.At(i, j)+sign)
			} else if ref.Pin < len(e.Values.Pins) {
				fixedIn.SetVec(i, fixedIn.AtVec(i)+e.Values.Pins[ref.Pin])
			}
		}
	}
	x := mat.NewVecDense(len(list), nil)
	for j, e := range list {
		x.SetVec(j, through(e))
	}
	var r mat.VecDense
	r.MulVec(a, x)
	r.AddVec(&r, fixedIn)

	delta := make([]float64, len(list))
	for i := range rows {
		ri := r.AtVec(i)
		maxResidual = max(maxResidual, math.Abs(ri))
		if math.Abs(ri) <= k.KCLThreshold {
			continue
		}
		var adjustable []int
		for j, e := range list {
			if a.At(i, j) != 0 && e.Kind != types.KindCurrentSource {
				adjustable = append(adjustable, j)
			}
		}
		if len(adjustable) == 0 {
			continue
		}
		fixed++
		corr := -ri / float64(len(adjustable))
		for _, j := range adjustable {
			delta[j] += corr / a.At(i, j)
		}
	}
	for j, e := range list {
		if delta[j] != 0 {
			setThrough(e, x.AtVec(j)+delta[j])
		}
	}
	return len(rows), maxResidual, fixed
}
