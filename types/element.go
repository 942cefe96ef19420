package types

import (
	"fmt"
	"math"
)

// ComponentID 元件
type ComponentID = string

// Values 元件仿真结果,每步覆盖
type Values struct {
	Voltage float64   `json:"voltage"`        // 电压
	Current float64   `json:"current"`        // 电流
	Power   float64   `json:"power"`          // 功率
	Pins    []float64 `json:"pins,omitempty"` // 各引脚流入元件的电流
}

// Zero 是否全零
func (v Values) Zero() bool {
	if v.Voltage != 0 || v.Current != 0 || v.Power != 0 {
		return false
	}
	for _, p := range v.Pins {
		if p != 0 {
			return false
		}
	}
	return true
}

// Clone 复制
func (v Values) Clone() Values {
	if v.Pins != nil {
		v.Pins = append([]float64(nil), v.Pins...)
	}
	return v
}

// Terminal 引脚
type Terminal struct {
	Index int    // 引脚序号
	Name  string // 引脚名称
	Point Point  // 画布坐标
}

// Component 电路元件
type Component struct {
	ID       ComponentID // 元件ID,创建后不变
	Kind     Kind        // 元件类型
	Position Point       // 画布位置
	Rotation float64     // 旋转角度
	Params   Params      // 元件参数
	Values   Values      // 最近一次完成步的输出
	State    Values      // 电容电感积分器原始状态
}

// NewComponent 创建元件,参数为空值,由仿真校验时填充默认值
func NewComponent(id ComponentID, k Kind, pos Point) (*Component, error) {
	p, err := NewParams(k)
	if err != nil {
		return nil, err
	}
	return &Component{ID: id, Kind: k, Position: pos, Params: p}, nil
}

// TerminalCount 引脚数量
func (c *Component) TerminalCount() int { return c.Kind.TerminalCount() }

// TerminalPoint 引脚画布坐标
func (c *Component) TerminalPoint(i int) (Point, bool) {
	if i < 0 || i >= c.TerminalCount() {
		return Point{}, false
	}
	return c.Position.Add(terminalOffset(c.Kind, i).Rotate(c.Rotation)), true
}

// Terminals 全部引脚
func (c *Component) Terminals() []Terminal {
	names := c.Kind.TerminalNames()
	list := make([]Terminal, len(names))
	for i, n := range names {
		p, _ := c.TerminalPoint(i)
		list[i] = Terminal{Index: i, Name: n, Point: p}
	}
	return list
}

// Rotate 按旋转步进旋转
func (c *Component) Rotate(steps int) {
	c.Rotation = math.Mod(c.Rotation+float64(steps)*RotationStep, 360)
	if c.Rotation < 0 {
		c.Rotation += 360
	}
}

// SetValues 写入结果并计算功率
func (c *Component) SetValues(v Values) {
	v.Power = v.Voltage * v.Current
	c.Values = v
}

// ResetValues 清零输出与内部状态
func (c *Component) ResetValues() {
	c.Values = Values{}
	c.State = Values{}
}

// Clone 深复制
func (c *Component) Clone() *Component {
	n := *c
	if c.Params != nil {
		n.Params = c.Params.clone()
	}
	n.Values = c.Values.Clone()
	n.State = c.State.Clone()
	return &n
}

func (c *Component) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, c.ID)
}
