package simulation

import (
	"errors"
	"fmt"
)

// 会话错误
var (
	ErrNotIdle          = errors.New("仿真已在运行")
	ErrNotRunning       = errors.New("仿真未运行")
	ErrNotPaused        = errors.New("仿真未暂停")
	ErrInvalidSpeed     = errors.New("仿真速度必须为正数")
	ErrUnknownComponent = errors.New("元件不存在")
	ErrUnknownProperty  = errors.New("元件没有该属性")
	ErrNilCircuit       = errors.New("电路为空")
)

// StepError 单步计算中捕获的错误,仿真继续运行
type StepError struct {
	Step    uint64  // 步数
	Time    float64 // 仿真时间
	ID      string  // 涉及的元件,未知时为空
	Wrapped error
}

func (e *StepError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("第 %d 步 (t=%g): %s", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("第 %d 步 (t=%g) %s: %s", e.Step, e.Time, e.ID, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
