package types

import (
	"fmt"
	"strings"
)

// Waveform 电源波形
type Waveform int

// 电源类型
const (
	WfDC       Waveform = iota // 直流波形
	WfSine                     // 正弦波
	WfSquare                   // 方波
	WfTriangle                 // 三角波
	WfSawtooth                 // 锯齿波
)

var waveformName = []string{"dc", "sine", "square", "triangle", "sawtooth"}

func (w Waveform) String() string {
	if w >= 0 && int(w) < len(waveformName) {
		return waveformName[w]
	}
	return "unknown"
}

// Valid 是否为已知波形
func (w Waveform) Valid() bool { return w >= 0 && int(w) < len(waveformName) }

// ParseWaveform 解析波形名称
func ParseWaveform(s string) (Waveform, error) {
	for i, n := range waveformName {
		if strings.EqualFold(n, s) {
			return Waveform(i), nil
		}
	}
	return WfDC, fmt.Errorf("未知波形: %q", s)
}

// Polarity 晶体管极性
type Polarity int

const (
	NPN Polarity = iota
	PNP
)

func (p Polarity) String() string {
	if p == PNP {
		return "pnp"
	}
	return "npn"
}

// ParsePolarity 解析极性
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(s) {
	case "npn":
		return NPN, nil
	case "pnp":
		return PNP, nil
	}
	return NPN, fmt.Errorf("未知晶体管极性: %q", s)
}

// Gate 逻辑门类型
type Gate int

// 逻辑门类型常量
const (
	GateInverter Gate = iota // 非门
	GateAnd                  // 与门
	GateNand                 // 与非门
	GateOr                   // 或门
	GateNor                  // 或非门
	GateXor                  // 异或门
	GateXnor                 // 同或门
)

var gateName = []string{"not", "and", "nand", "or", "nor", "xor", "xnor"}

func (g Gate) String() string {
	if g >= 0 && int(g) < len(gateName) {
		return gateName[g]
	}
	return "unknown"
}

// Valid 是否为已知门类型
func (g Gate) Valid() bool { return g >= 0 && int(g) < len(gateName) }

// ParseGate 解析门类型
func ParseGate(s string) (Gate, error) {
	for i, n := range gateName {
		if strings.EqualFold(n, s) {
			return Gate(i), nil
		}
	}
	return GateInverter, fmt.Errorf("未知逻辑门: %q", s)
}

// Params 元件参数,每种元件一个具体类型
type Params interface {
	Kind() Kind                      // 所属元件类型
	Get(name string) (float64, bool) // 按属性名读取
	Set(name string, v float64) bool // 按属性名写入
	Names() []string                 // 属性名列表
	clone() Params
}

// propertyKey 属性名归一化: 忽略大小写与分隔符
func propertyKey(name string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(name))
}

// NewParams 创建指定类型的空参数
func NewParams(k Kind) (Params, error) {
	switch k {
	case KindResistor:
		return &ResistorParams{}, nil
	case KindCapacitor:
		return &CapacitorParams{}, nil
	case KindInductor:
		return &InductorParams{}, nil
	case KindVoltageSource:
		return &VoltageSourceParams{}, nil
	case KindCurrentSource:
		return &CurrentSourceParams{}, nil
	case KindDiode:
		return &DiodeParams{}, nil
	case KindTransistor:
		return &TransistorParams{}, nil
	case KindGround:
		return &GroundParams{}, nil
	case KindLogicGate:
		return &LogicGateParams{}, nil
	}
	return nil, fmt.Errorf("未知元件类型: %d", k)
}

// ResistorParams 电阻参数
type ResistorParams struct {
	Resistance float64 `json:"resistance"` // 欧姆
}

func (*ResistorParams) Kind() Kind      { return KindResistor }
func (*ResistorParams) Names() []string { return []string{"resistance"} }
func (p *ResistorParams) clone() Params { c := *p; return &c }
func (p *ResistorParams) Get(name string) (float64, bool) {
	if propertyKey(name) == "resistance" {
		return p.Resistance, true
	}
	return 0, false
}
func (p *ResistorParams) Set(name string, v float64) bool {
	if propertyKey(name) == "resistance" {
		p.Resistance = v
		return true
	}
	return false
}

// CapacitorParams 电容参数
type CapacitorParams struct {
	Capacitance float64 `json:"capacitance"` // 法拉
}

func (*CapacitorParams) Kind() Kind      { return KindCapacitor }
func (*CapacitorParams) Names() []string { return []string{"capacitance"} }
func (p *CapacitorParams) clone() Params { c := *p; return &c }
func (p *CapacitorParams) Get(name string) (float64, bool) {
	if propertyKey(name) == "capacitance" {
		return p.Capacitance, true
	}
	return 0, false
}
func (p *CapacitorParams) Set(name string, v float64) bool {
	if propertyKey(name) == "capacitance" {
		p.Capacitance = v
		return true
	}
	return false
}

// InductorParams 电感参数
type InductorParams struct {
	Inductance float64 `json:"inductance"` // 亨利
}

func (*InductorParams) Kind() Kind      { return KindInductor }
func (*InductorParams) Names() []string { return []string{"inductance"} }
func (p *InductorParams) clone() Params { c := *p; return &c }
func (p *InductorParams) Get(name string) (float64, bool) {
	if propertyKey(name) == "inductance" {
		return p.Inductance, true
	}
	return 0, false
}
func (p *InductorParams) Set(name string, v float64) bool {
	if propertyKey(name) == "inductance" {
		p.Inductance = v
		return true
	}
	return false
}

// VoltageSourceParams 电压源参数
type VoltageSourceParams struct {
	Waveform  Waveform `json:"waveform"`  // 波形类型
	Amplitude float64  `json:"amplitude"` // 幅值(直流时即输出电压)
	Frequency float64  `json:"frequency"` // 频率
	DCOffset  float64  `json:"dcOffset"`  // 偏置电压
}

func (*VoltageSourceParams) Kind() Kind { return KindVoltageSource }
func (*VoltageSourceParams) Names() []string {
	return []string{"waveform", "amplitude", "frequency", "dcOffset"}
}
func (p *VoltageSourceParams) clone() Params { c := *p; return &c }
func (p *VoltageSourceParams) Get(name string) (float64, bool) {
	switch propertyKey(name) {
	case "waveform":
		return float64(p.Waveform), true
	case "amplitude", "voltage":
		return p.Amplitude, true
	case "frequency":
		return p.Frequency, true
	case "dcoffset", "offset":
		return p.DCOffset, true
	}
	return 0, false
}
func (p *VoltageSourceParams) Set(name string, v float64) bool {
	switch propertyKey(name) {
	case "waveform":
		p.Waveform = Waveform(int(v))
	case "amplitude", "voltage":
		p.Amplitude = v
	case "frequency":
		p.Frequency = v
	case "dcoffset", "offset":
		p.DCOffset = v
	default:
		return false
	}
	return true
}

// CurrentSourceParams 电流源参数
type CurrentSourceParams struct {
	Current float64 `json:"current"` // 安培
}

func (*CurrentSourceParams) Kind() Kind      { return KindCurrentSource }
func (*CurrentSourceParams) Names() []string { return []string{"current"} }
func (p *CurrentSourceParams) clone() Params { c := *p; return &c }
func (p *CurrentSourceParams) Get(name string) (float64, bool) {
	if propertyKey(name) == "current" {
		return p.Current, true
	}
	return 0, false
}
func (p *CurrentSourceParams) Set(name string, v float64) bool {
	if propertyKey(name) == "current" {
		p.Current = v
		return true
	}
	return false
}

// DiodeParams 二极管参数
type DiodeParams struct {
	ForwardVoltage    float64 `json:"forwardVoltage"`    // 导通压降
	SaturationCurrent float64 `json:"saturationCurrent"` // 反向饱和电流
}

func (*DiodeParams) Kind() Kind { return KindDiode }
func (*DiodeParams) Names() []string {
	return []string{"forwardVoltage", "saturationCurrent"}
}
func (p *DiodeParams) clone() Params { c := *p; return &c }
func (p *DiodeParams) Get(name string) (float64, bool) {
	switch propertyKey(name) {
	case "forwardvoltage":
		return p.ForwardVoltage, true
	case "saturationcurrent":
		return p.SaturationCurrent, true
	}
	return 0, false
}
func (p *DiodeParams) Set(name string, v float64) bool {
	switch propertyKey(name) {
	case "forwardvoltage":
		p.ForwardVoltage = v
	case "saturationcurrent":
		p.SaturationCurrent = v
	default:
		return false
	}
	return true
}

// TransistorParams 晶体管参数
type TransistorParams struct {
	Polarity     Polarity `json:"polarity"`     // NPN/PNP
	Beta         float64  `json:"beta"`         // 电流增益
	VbeThreshold float64  `json:"vbeThreshold"` // 基射导通阈值
}

func (*TransistorParams) Kind() Kind { return KindTransistor }
func (*TransistorParams) Names() []string {
	return []string{"polarity", "beta", "vbeThreshold"}
}
func (p *TransistorParams) clone() Params { c := *p; return &c }
func (p *TransistorParams) Get(name string) (float64, bool) {
	switch propertyKey(name) {
	case "polarity":
		return float64(p.Polarity), true
	case "beta", "gain":
		return p.Beta, true
	case "vbethreshold":
		return p.VbeThreshold, true
	}
	return 0, false
}
func (p *TransistorParams) Set(name string, v float64) bool {
	switch propertyKey(name) {
	case "polarity":
		p.Polarity = Polarity(int(v))
	case "beta", "gain":
		p.Beta = v
	case "vbethreshold":
		p.VbeThreshold = v
	default:
		return false
	}
	return true
}

// GroundParams 地无参数
type GroundParams struct{}

func (*GroundParams) Kind() Kind                 { return KindGround }
func (*GroundParams) Names() []string            { return nil }
func (*GroundParams) clone() Params              { return &GroundParams{} }
func (*GroundParams) Get(string) (float64, bool) { return 0, false }
func (*GroundParams) Set(string, float64) bool   { return false }

// LogicGateParams 逻辑门参数
type LogicGateParams struct {
	Gate        Gate    `json:"gate"`        // 门类型
	HighVoltage float64 `json:"highVoltage"` // 高电平电压
}

func (*LogicGateParams) Kind() Kind      { return KindLogicGate }
func (*LogicGateParams) Names() []string { return []string{"gate", "highVoltage"} }
func (p *LogicGateParams) clone() Params { c := *p; return &c }
func (p *LogicGateParams) Get(name string) (float64, bool) {
	switch propertyKey(name) {
	case "gate":
		return float64(p.Gate), true
	case "highvoltage":
		return p.HighVoltage, true
	}
	return 0, false
}
func (p *LogicGateParams) Set(name string, v float64) bool {
	switch propertyKey(name) {
	case "gate":
		p.Gate = Gate(int(v))
	case "highvoltage":
		p.HighVoltage = v
	default:
		return false
	}
	return true
}
