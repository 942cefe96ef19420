package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"circuitsim/element"
	"circuitsim/filter"
	"circuitsim/simulation"
	"circuitsim/types"
)

// 控制消息类型
const (
	RequestStart           = "start"
	RequestPause           = "pause"
	RequestResume          = "resume"
	RequestStop            = "stop"
	RequestStep            = "step"
	RequestUpdateComponent = "updateComponent"
	RequestUpdateSpeed     = "updateSpeed"
	RequestUpdateAccuracy  = "updateAccuracy"
	RequestUpdateTopology  = "updateTopology"
	RequestUpdateMode      = "updateMode"
)

// ErrBadRequest 控制消息无效
var ErrBadRequest = errors.New("无效的控制消息")

// Request 浏览器发来的控制消息
type Request struct {
	Type        string           `json:"type"`
	Circuit     *types.Circuit   `json:"circuit,omitempty"`
	Mode        string           `json:"mode,omitempty"`
	Speed       float64          `json:"speed,omitempty"`
	ComponentID string           `json:"componentId,omitempty"`
	Property    string           `json:"property,omitempty"`
	Value       json.RawMessage  `json:"value,omitempty"` // 数值或带单位的文本
	Accuracy    *filter.Settings `json:"accuracy,omitempty"`
}

// Message 推送给浏览器的消息
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type errorMessage struct {
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
}

func encode(typ string, data any) ([]byte, error) {
	return json.Marshal(Message{Type: typ, Data: data})
}

func decodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return req, nil
}

func parseMode(s string) (element.Mode, error) {
	if s == "" {
		return element.ModeTransient, nil
	}
	return element.ParseMode(s)
}

// Dispatch 执行一条控制消息
func (s *Server) Dispatch(req Request) error {
	ss := s.session
	switch req.Type {
	case RequestStart:
		if req.Circuit == nil {
			return fmt.Errorf("%w: 缺少电路", ErrBadRequest)
		}
		mode, err := parseMode(req.Mode)
		if err != nil {
			return err
		}
		speed := req.Speed
		if speed == 0 {
			speed = 1
		}
		return ss.Start(req.Circuit, mode, speed)
	case RequestPause:
		return ss.Pause()
	case RequestResume:
		return ss.Resume()
	case RequestStop:
		ss.Stop()
		return nil
	case RequestStep:
		_, err := ss.Step()
		var se *simulation.StepError
		if errors.As(err, &se) {
			// 单步错误已通过事件推送
			return nil
		}
		return err
	case RequestUpdateComponent:
		if req.ComponentID == "" || req.Property == "" || len(req.Value) == 0 {
			return fmt.Errorf("%w: 缺少元件、属性或数值", ErrBadRequest)
		}
		var v float64
		if err := json.Unmarshal(req.Value, &v); err == nil {
			return ss.UpdateComponent(req.ComponentID, req.Property, v)
		}
		var text string
		if err := json.Unmarshal(req.Value, &text); err != nil {
			return fmt.Errorf("%w: 数值格式 %s", ErrBadRequest, req.Value)
		}
		return ss.UpdateComponentText(req.ComponentID, req.Property, text)
	case RequestUpdateSpeed:
		return ss.UpdateSpeed(req.Speed)
	case RequestUpdateAccuracy:
		if req.Accuracy == nil {
			return fmt.Errorf("%w: 缺少精度设置", ErrBadRequest)
		}
		return ss.UpdateAccuracy(*req.Accuracy)
	case RequestUpdateTopology:
		if req.Circuit == nil {
			return fmt.Errorf("%w: 缺少电路", ErrBadRequest)
		}
		return ss.UpdateTopology(req.Circuit)
	case RequestUpdateMode:
		mode, err := element.ParseMode(req.Mode)
		if err != nil {
			return err
		}
		return ss.UpdateMode(mode)
	}
	return fmt.Errorf("%w: 未知类型 %q", ErrBadRequest, req.Type)
}
