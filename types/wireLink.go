package types

import (
	"errors"
	"fmt"
	"slices"
)

// WireID 连接
type WireID = string

// Binding 线端绑定的元件引脚
type Binding struct {
	Component ComponentID `json:"component"`
	Terminal  int         `json:"terminal"`
}

// Endpoint 线端
type Endpoint struct {
	Point   Point    `json:"point"`             // 线端坐标,绑定时跟随引脚
	Binding *Binding `json:"binding,omitempty"` // 为空表示悬空
}

// Bound 是否绑定
func (e Endpoint) Bound() bool { return e.Binding != nil }

// Wire 连线
type Wire struct {
	ID      WireID   `json:"id"`
	Start   Endpoint `json:"start"`
	End     Endpoint `json:"end"`
	Current float64  `json:"current"`           // 起点到终点方向为正
	Voltage float64  `json:"voltage"`           // 相邻元件近似电压
	Flagged bool     `json:"flagged,omitempty"` // 存在无法修复的悬空端,提示编辑器清理
}

// Ends 两个线端
func (w *Wire) Ends() [2]*Endpoint { return [2]*Endpoint{&w.Start, &w.End} }

// Clone 深复制
func (w *Wire) Clone() *Wire {
	n := *w
	for _, e := range n.Ends() {
		if e.Binding != nil {
			b := *e.Binding
			e.Binding = &b
		}
	}
	return &n
}

// Circuit 元件与连线集合
type Circuit struct {
	Components []*Component `json:"components"`
	Wires      []*Wire      `json:"wires"`
}

// 结构错误
var (
	ErrDuplicateID = errors.New("重复的ID")
	ErrNilParams   = errors.New("元件参数为空")
	ErrBadTerminal = errors.New("引脚序号无效")
	ErrParamsKind  = errors.New("参数类型与元件类型不符")
	ErrUnknownKind = errors.New("未知元件类型")
	ErrEmptyID     = errors.New("ID为空")
)

// Clone 深复制
func (c *Circuit) Clone() *Circuit {
	n := &Circuit{
		Components: make([]*Component, len(c.Components)),
		Wires:      make([]*Wire, len(c.Wires)),
	}
	for i, e := range c.Components {
		n.Components[i] = e.Clone()
	}
	for i, w := range c.Wires {
		n.Wires[i] = w.Clone()
	}
	return n
}

// Component 按ID查找元件
func (c *Circuit) Component(id ComponentID) (*Component, bool) {
	for _, e := range c.Components {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Wire 按ID查找连线
func (c *Circuit) Wire(id WireID) (*Wire, bool) {
	for _, w := range c.Wires {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// Index 元件索引表
func (c *Circuit) Index() map[ComponentID]*Component {
	m := make(map[ComponentID]*Component, len(c.Components))
	for _, e := range c.Components {
		m[e.ID] = e
	}
	return m
}

// AddComponent 添加元件
func (c *Circuit) AddComponent(e *Component) error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if _, ok := c.Component(e.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	c.Components = append(c.Components, e)
	return nil
}

// DeleteComponent 删除元件,连线绑定保留,由下一步修复或解除
func (c *Circuit) DeleteComponent(id ComponentID) bool {
	i := slices.IndexFunc(c.Components, func(e *Component) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	c.Components = slices.Delete(c.Components, i, i+1)
	return true
}

// Connect 在两个元件引脚之间添加连线
func (c *Circuit) Connect(id WireID, a ComponentID, ta int, b ComponentID, tb int) (*Wire, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if _, ok := c.Wire(id); ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	w := &Wire{ID: id}
	for i, end := range [2]struct {
		id ComponentID
		t  int
	}{{a, ta}, {b, tb}} {
		e, ok := c.Component(end.id)
		if !ok {
			return nil, fmt.Errorf("元件不存在: %s", end.id)
		}
		p, ok := e.TerminalPoint(end.t)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d]", ErrBadTerminal, end.id, end.t)
		}
		w.Ends()[i].Point = p
		w.Ends()[i].Binding = &Binding{Component: end.id, Terminal: end.t}
	}
	c.Wires = append(c.Wires, w)
	return w, nil
}

// DeleteWire 删除连线
func (c *Circuit) DeleteWire(id WireID) bool {
	i := slices.IndexFunc(c.Wires, func(w *Wire) bool { return w.ID == id })
	if i < 0 {
		return false
	}
	c.Wires = slices.Delete(c.Wires, i, i+1)
	return true
}

// Validate 结构校验: ID唯一、参数类型匹配。引脚失效的绑定不在此报错,交给连线修复处理
func (c *Circuit) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Components))
	for _, e := range c.Components {
		switch {
		case e.ID == "":
			errs = append(errs, ErrEmptyID)
		case seen[e.ID]:
			errs = append(errs, fmt.Errorf("%w: 元件 %s", ErrDuplicateID, e.ID))
		}
		seen[e.ID] = true
		if e.Kind.TerminalCount() == 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownKind, e.ID))
			continue
		}
		if e.Params == nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNilParams, e.ID))
		} else if e.Params.Kind() != e.Kind {
			errs = append(errs, fmt.Errorf("%w: %s %s/%s", ErrParamsKind, e.ID, e.Kind, e.Params.Kind()))
		}
	}
	wseen := make(map[string]bool, len(c.Wires))
	for _, w := range c.Wires {
		switch {
		case w.ID == "":
			errs = append(errs, ErrEmptyID)
		case wseen[w.ID]:
			errs = append(errs, fmt.Errorf("%w: 连线 %s", ErrDuplicateID, w.ID))
		}
		wseen[w.ID] = true
	}
	return errors.Join(errs...)
}

// ResetValues 清零全部元件与连线结果
func (c *Circuit) ResetValues() {
	for _, e := range c.Components {
		e.ResetValues()
	}
	for _, w := range c.Wires {
		w.Current, w.Voltage = 0, 0
	}
}
