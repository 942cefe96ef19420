package types

import (
	"fmt"
	"strings"
)

// Kind 元件类型
type Kind uint8

// 电路元件类型常量定义
const (
	KindUnknown       Kind = iota // 未知类型
	KindResistor                  // 电阻
	KindCapacitor                 // 电容
	KindInductor                  // 电感
	KindVoltageSource             // 电压源
	KindCurrentSource             // 电流源
	KindDiode                     // 二极管
	KindTransistor                // 晶体管
	KindGround                    // 地
	KindLogicGate                 // 逻辑门
)

// kindString 元件映射
var kindString = map[Kind]struct {
	Name     string
	Terminal []string
}{
	KindResistor:      {Name: "resistor", Terminal: []string{"input", "output"}},
	KindCapacitor:     {Name: "capacitor", Terminal: []string{"positive", "negative"}},
	KindInductor:      {Name: "inductor", Terminal: []string{"input", "output"}},
	KindVoltageSource: {Name: "voltage-source", Terminal: []string{"positive", "negative"}},
	KindCurrentSource: {Name: "current-source", Terminal: []string{"positive", "negative"}},
	KindDiode:         {Name: "diode", Terminal: []string{"anode", "cathode"}},
	KindTransistor:    {Name: "transistor", Terminal: []string{"base", "collector", "emitter"}},
	KindGround:        {Name: "ground", Terminal: []string{"ground"}},
	KindLogicGate:     {Name: "logic-gate", Terminal: []string{"in1", "in2", "out"}},
}

// mapName 名称索引
var mapName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindString))
	for k, v := range kindString {
		m[v.Name] = k
	}
	return m
}()

// Kinds 返回全部已知类型
func Kinds() []Kind {
	return []Kind{
		KindResistor, KindCapacitor, KindInductor, KindVoltageSource, KindCurrentSource,
		KindDiode, KindTransistor, KindGround, KindLogicGate,
	}
}

// String 返回元件类型的字符串表示
func (k Kind) String() string {
	if et, ok := kindString[k]; ok {
		return et.Name
	}
	return "unknown"
}

// ParseKind 通过名称获取类型
func ParseKind(name string) (Kind, error) {
	if k, ok := mapName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("未知元件类型: %q", name)
}

// TerminalNames 引脚名称
func (k Kind) TerminalNames() []string {
	return kindString[k].Terminal
}

// TerminalCount 引脚数量
func (k Kind) TerminalCount() int { return len(kindString[k].Terminal) }

// IsSource 电压源与电流源
func (k Kind) IsSource() bool { return k == KindVoltageSource || k == KindCurrentSource }

// IsTwoTerminal 两端元件
func (k Kind) IsTwoTerminal() bool { return k.TerminalCount() == 2 }

// MarshalText 文本编码
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindString[k]; !ok {
		return nil, fmt.Errorf("未知元件类型: %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText 文本解码
func (k *Kind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseKind(string(text))
	return err
}
