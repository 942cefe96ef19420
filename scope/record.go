package scope

import (
	"encoding/json"
	"io"
	"slices"
	"sync"

	"circuitsim/simulation"
	"circuitsim/utils"
)

// Trace 一条曲线
type Trace struct {
	Name   string    `json:"name"` // 元件或连线ID加物理量,如 R1.V
	Unit   string    `json:"unit"`
	Values []float64 `json:"values"`
}

// Link 元件引脚与连线的连接
type Link struct {
	Component string `json:"component"`
	Wire      string `json:"wire"`
	Terminal  int    `json:"terminal"`
}

// Record 记录更新事件,每条曲线最多保留 capacity 个点
type Record struct {
	mu        sync.RWMutex
	capacity  int
	Elements  []string                     `json:"elements"` // 元件列表
	Wires     []string                     `json:"wires"`    // 连线列表
	Links     []Link                       `json:"links"`    // 连接信息
	Time      []float64                    `json:"time"`     // 时间列
	Traces    []*Trace                     `json:"traces"`   // 与时间列等长
	Response  simulation.FrequencyResponse `json:"response"` // 最近一次频率响应
	Errors    []simulation.ErrorReport     `json:"errors,omitempty"`
	index     map[string]*Trace
	lastSteps uint64
}

// NewRecord 创建记录
func NewRecord(capacity int) *Record {
	return &Record{capacity: max(capacity, 2), index: map[string]*Trace{}}
}

// trace 按名称取曲线,新曲线用0补齐之前的时间点
func (r *Record) trace(name, unit string) *Trace {
	t, ok := r.index[name]
	if !ok {
		t = &Trace{Name: name, Unit: unit, Values: make([]float64, len(r.Time))}
		r.index[name] = t
		r.Traces = append(r.Traces, t)
	}
	return t
}

func (r *Record) push(name, unit string, v float64) {
	t := r.trace(name, unit)
	t.Values = append(t.Values, v)
}

// Init 从快照读取元件与连接信息
func (r *Record) Init(snap simulation.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init(snap)
}

func (r *Record) init(snap simulation.Snapshot) {
	r.Elements, r.Wires, r.Links = r.Elements[:0], r.Wires[:0], r.Links[:0]
	for _, e := range snap.Components {
		r.Elements = append(r.Elements, e.ID)
	}
	for _, w := range snap.Wires {
		r.Wires = append(r.Wires, w.ID)
		for _, ep := range w.Ends() {
			if ep.Binding != nil {
				r.Links = append(r.Links, Link{Component: ep.Binding.Component, Wire: w.ID, Terminal: ep.Binding.Terminal})
			}
		}
	}
}

// Reset 清空曲线
func (r *Record) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Time, r.Traces, r.Errors = nil, nil, nil
	r.Response = simulation.FrequencyResponse{}
	clear(r.index)
	r.lastSteps = 0
}

// Update 追加一步结果
func (r *Record) Update(snap simulation.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 重新开始的运行从头记录
	if snap.Step < r.lastSteps {
		r.Time, r.Traces = nil, nil
		clear(r.index)
	}
	r.lastSteps = snap.Step
	if len(r.Time) == 0 || len(r.Elements) != len(snap.Components) || len(r.Wires) != len(snap.Wires) {
		r.init(snap)
	}
	for _, e := range snap.Components {
		r.push(e.ID+".V", "V", e.Values.Voltage)
		r.push(e.ID+".I", "A", e.Values.Current)
	}
	for _, w := range snap.Wires {
		r.push(w.ID+".I", "A", w.Current)
	}
	r.Time = append(r.Time, snap.Time)
	// 本步未出现的曲线补0
	for _, t := range r.Traces {
		for len(t.Values) < len(r.Time) {
			t.Values = append(t.Values, 0)
		}
	}
	if over := len(r.Time) - r.capacity; over > 0 {
		r.Time = slices.Delete(r.Time, 0, over)
		for _, t := range r.Traces {
			t.Values = slices.Delete(t.Values, 0, over)
		}
	}
}

// Error 记录错误事件
func (r *Record) Error(rep simulation.ErrorReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, rep)
	utils.GetLogger().Debugf("示波器记录错误: %s", rep.Error.Message)
}

// SetResponse 记录频率响应
func (r *Record) SetResponse(resp simulation.FrequencyResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Response = resp
}

// Handle 处理一个仿真事件
func (r *Record) Handle(e utils.Event) {
	switch v := e.Value.(type) {
	case simulation.Snapshot:
		if e.Type == simulation.EventStarted || e.Type == simulation.EventStopped {
			r.Reset()
			r.Init(v)
			return
		}
		if e.Type == simulation.EventUpdate {
			r.Update(v)
		}
	case simulation.FrequencyResponse:
		r.SetResponse(v)
	case simulation.ErrorReport:
		r.Error(v)
	}
}

// Follow 持续消费事件直到通道关闭
func (r *Record) Follow(events <-chan utils.Event) {
	for e := range events {
		r.Handle(e)
	}
}

// Series 查询曲线副本
func (r *Record) Series(name string) ([]float64, []float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.index[name]
	if !ok {
		return nil, nil, false
	}
	return slices.Clone(r.Time), slices.Clone(t.Values), true
}

// Len 记录的点数
func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Time)
}

// Render 输出 JSON
func (r *Record) Render(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return json.NewEncoder(w).Encode(r)
}
