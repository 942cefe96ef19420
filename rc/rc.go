package rc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode 充放电过程
type Mode uint8

// 充放电过程
const (
	Charging    Mode = iota // 充电
	Discharging             // 放电
	Both                    // 前半段充电,后半段放电
)

var modeName = []string{"charging", "discharging", "both"}

func (m Mode) String() string {
	if int(m) < len(modeName) {
		return modeName[m]
	}
	return "unknown"
}

// ParseMode 解析过程名称
func ParseMode(s string) (Mode, error) {
	for i, n := range modeName {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return Charging, fmt.Errorf("未知充放电过程: %q", s)
}

// 交互调节范围
const (
	MinResistance  = 100.0
	MaxResistance  = 10000.0
	MinCapacitance = 1e-6
	MaxCapacitance = 100e-6
	MinVoltage     = 1.0
	MaxVoltage     = 12.0
)

// Circuit 串联 RC 电路
type Circuit struct {
	Resistance  float64 // 欧姆
	Capacitance float64 // 法拉
	Voltage     float64 // 电源电压
}

// Default 1kΩ、10µF、5V
func Default() Circuit {
	return Circuit{Resistance: 1000, Capacitance: 10e-6, Voltage: 5}
}

// Validate 检查参数是否在调节范围内
func (c Circuit) Validate() error {
	var errs []error
	if !(c.Resistance >= MinResistance && c.Resistance <= MaxResistance) {
		errs = append(errs, fmt.Errorf("电阻超出范围 [%g, %g]: %g", MinResistance, MaxResistance, c.Resistance))
	}
	if !(c.Capacitance >= MinCapacitance && c.Capacitance <= MaxCapacitance) {
		errs = append(errs, fmt.Errorf("电容超出范围 [%g, %g]: %g", MinCapacitance, MaxCapacitance, c.Capacitance))
	}
	if !(c.Voltage >= MinVoltage && c.Voltage <= MaxVoltage) {
		errs = append(errs, fmt.Errorf("电压超出范围 [%g, %g]: %g", MinVoltage, MaxVoltage, c.Voltage))
	}
	return errors.Join(errs...)
}

// Tau 时间常数 RC
func (c Circuit) Tau() float64 { return c.Resistance * c.Capacitance }

// ChargingVoltage 充电时电容电压
func (c Circuit) ChargingVoltage(t float64) float64 {
	return c.Voltage * (1 - math.Exp(-t/c.Tau()))
}

// DischargingVoltage 放电时电容电压
func (c Circuit) DischargingVoltage(t float64) float64 {
	return c.Voltage * math.Exp(-t/c.Tau())
}

// ChargingCurrent 充电电流
func (c Circuit) ChargingCurrent(t float64) float64 {
	return c.Voltage / c.Resistance * math.Exp(-t/c.Tau())
}

// DischargingCurrent 放电电流,方向与充电相反
func (c Circuit) DischargingCurrent(t float64) float64 {
	return -c.Voltage / c.Resistance * math.Exp(-t/c.Tau())
}

// Window 观察时长: 单一过程 5τ,充放电 10τ
func (c Circuit) Window(m Mode) float64 {
	if m == Both {
		return 10 * c.Tau()
	}
	return 5 * c.Tau()
}

// Landmarks 一个时间常数处的充电与放电电压
func (c Circuit) Landmarks() (charged, discharged float64) {
	return c.ChargingVoltage(c.Tau()), c.DischargingVoltage(c.Tau())
}

// Samples 采样结果
type Samples struct {
	Time    []float64
	Voltage []float64
	Current []float64
}

// Simulate 在 [0, total] 上等间隔取 n 个点
func (c Circuit) Simulate(total float64, n int, m Mode) (Samples, error) {
	if n < 2 {
		return Samples{}, fmt.Errorf("采样点数至少为2: %d", n)
	}
	if !(total > 0) {
		return Samples{}, fmt.Errorf("仿真时长必须为正: %g", total)
	}
	if !(c.Tau() > 0) {
		return Samples{}, fmt.Errorf("时间常数必须为正: R=%g C=%g", c.Resistance, c.Capacitance)
	}
	s := Samples{
		Time:    make([]float64, n),
		Voltage: make([]float64, n),
		Current: make([]float64, n),
	}
	half := n / 2
	for i := range n {
		t := total * float64(i) / float64(n-1)
		s.Time[i] = t
		switch {
		case m == Charging, m == Both && i < half:
			s.Voltage[i], s.Current[i] = c.ChargingVoltage(t), c.ChargingCurrent(t)
		default:
			// 放电段从半程处重新计时
			if m == Both {
				t -= s.Time[half]
			}
			s.Voltage[i], s.Current[i] = c.DischargingVoltage(t), c.DischargingCurrent(t)
		}
	}
	return s, nil
}
