package filter

import (
	"fmt"
	"strings"
)

// Accuracy 精度等级
type Accuracy uint8

// 精度等级
const (
	AccuracyLow Accuracy = iota
	AccuracyMedium
	AccuracyHigh
	AccuracyUltra
)

// Preset 精度等级对应的滤波参数
type Preset struct {
	Window            int     `json:"window"`            // 历史窗口长度
	Smoothing         float64 `json:"smoothing"`         // 指数平均系数
	VarianceThreshold float64 `json:"varianceThreshold"` // 稳定判定的方差阈值
	PointsPerDecade   int     `json:"pointsPerDecade"`   // 频率扫描每十倍频程点数
}

var presets = [...]struct {
	name string
	Preset
}{
	AccuracyLow:    {"low", Preset{Window: 5, Smoothing: 0.5, VarianceThreshold: 0.1, PointsPerDecade: 5}},
	AccuracyMedium: {"medium", Preset{Window: 8, Smoothing: 0.3, VarianceThreshold: 0.05, PointsPerDecade: 10}},
	AccuracyHigh:   {"high", Preset{Window: 10, Smoothing: 0.2, VarianceThreshold: 0.01, PointsPerDecade: 20}},
	AccuracyUltra:  {"ultra", Preset{Window: 12, Smoothing: 0.1, VarianceThreshold: 0.005, PointsPerDecade: 40}},
}

func (a Accuracy) String() string {
	if int(a) < len(presets) {
		return presets[a].name
	}
	return "unknown"
}

// Preset 等级参数,未知等级按 medium
func (a Accuracy) Preset() Preset {
	if int(a) < len(presets) {
		return presets[a].Preset
	}
	return presets[AccuracyMedium].Preset
}

// ParseAccuracy 解析等级名称
func ParseAccuracy(s string) (Accuracy, error) {
	for i, p := range presets {
		if strings.EqualFold(p.name, s) {
			return Accuracy(i), nil
		}
	}
	return AccuracyMedium, fmt.Errorf("未知精度等级: %q", s)
}

// MarshalText 文本编码
func (a Accuracy) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText 文本解码
func (a *Accuracy) UnmarshalText(text []byte) (err error) {
	*a, err = ParseAccuracy(string(text))
	return err
}

// Settings 精度调整请求
type Settings struct {
	Accuracy              Accuracy `json:"accuracyLevel" toml:"accuracy"`
	CalculationResolution int      `json:"calculationResolution,omitempty" toml:"calculation_resolution"` // 覆盖扫描点数,0 使用预设
	StabilityFactor       float64  `json:"stabilityFactor,omitempty" toml:"stability_factor"`             // 覆盖平滑系数,取值 (0,1]
}

// Resolve 合并预设与覆盖项
func (s Settings) Resolve() (Preset, error) {
	p := s.Accuracy.Preset()
	if int(s.Accuracy) >= len(presets) {
		return p, fmt.Errorf("未知精度等级: %d", s.Accuracy)
	}
	if s.StabilityFactor != 0 {
		if !(s.StabilityFactor > 0 && s.StabilityFactor <= 1) {
			return p, fmt.Errorf("稳定系数超出范围 (0,1]: %v", s.StabilityFactor)
		}
		p.Smoothing = s.StabilityFactor
	}
	if s.CalculationResolution != 0 {
		if s.CalculationResolution < 1 || s.CalculationResolution > 1000 {
			return p, fmt.Errorf("计算分辨率超出范围: %d", s.CalculationResolution)
		}
		p.PointsPerDecade = s.CalculationResolution
	}
	return p, nil
}
