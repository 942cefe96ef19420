package simulation

import (
	"circuitsim/element"
	"circuitsim/types"
	"circuitsim/utils"
)

// 仿真事件
const (
	EventStarted           utils.EventType = iota + 1 // 开始运行,内容为 Snapshot
	EventUpdate                                       // 每步结果,内容为 Snapshot
	EventPaused                                       // 暂停,内容为 Snapshot
	EventResumed                                      // 恢复,内容为 Snapshot
	EventStopped                                      // 停止,内容为清零后的 Snapshot
	EventError                                        // 单步错误,内容为 ErrorReport
	EventFrequencyResponse                            // 交流频率响应,内容为 FrequencyResponse
	EventTopology                                     // 连线修复,内容为 wirelink.Report
)

var eventName = map[utils.EventType]string{
	EventStarted:           "simulation-started",
	EventUpdate:            "simulation-update",
	EventPaused:            "simulation-paused",
	EventResumed:           "simulation-resumed",
	EventStopped:           "simulation-stopped",
	EventError:             "simulation-error",
	EventFrequencyResponse: "frequency-response",
	EventTopology:          "topology-report",
}

// EventName 事件名称
func EventName(t utils.EventType) string {
	if n, ok := eventName[t]; ok {
		return n
	}
	return "unknown"
}

// State 会话状态
type State uint8

// 会话状态
const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "idle"
}

// MarshalText 文本编码
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Snapshot 一步完成后的电路副本
type Snapshot struct {
	Components []*types.Component `json:"components"`
	Wires      []*types.Wire      `json:"wires"`
	Time       float64            `json:"time"`
	Step       uint64             `json:"step"`
	Mode       element.Mode       `json:"mode"`
	State      State              `json:"state"`
	Stabilized bool               `json:"stabilized"`
}

// Component 按ID查找元件
func (s Snapshot) Component(id types.ComponentID) (*types.Component, bool) {
	for _, e := range s.Components {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Wire 按ID查找连线
func (s Snapshot) Wire(id types.WireID) (*types.Wire, bool) {
	for _, w := range s.Wires {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// ErrorReport 错误事件内容,编码为 {"error":{"message",...},"time"}
type ErrorReport struct {
	Error ErrorDetail `json:"error"`
	Time  float64     `json:"time"`
}

// ErrorDetail 错误描述
type ErrorDetail struct {
	Message   string `json:"message"`
	Component string `json:"component,omitempty"` // 出错的元件或连线
}

// FrequencyPoint 扫描点
type FrequencyPoint struct {
	Frequency float64 `json:"frequency"` // Hz
	Magnitude float64 `json:"magnitude"` // 输出与输入幅值比
	Phase     float64 `json:"phase"`     // 度
	Impedance float64 `json:"impedance"` // 串联总阻抗模
}

// FrequencyResponse 频率响应事件内容
type FrequencyResponse struct {
	Source types.ComponentID `json:"source"` // 驱动电源
	Output types.ComponentID `json:"output"` // 取输出电压的元件
	Data   []FrequencyPoint  `json:"data"`
}

