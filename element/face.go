package element

import (
	"fmt"
	"strings"

	"circuitsim/types"
)

// Mode 仿真模式
type Mode uint8

// 仿真模式
const (
	ModeTransient Mode = iota // 瞬态
	ModeDC                    // 直流工作点
	ModeAC                    // 交流稳态
)

var modeName = []string{"transient", "dc", "ac"}

func (m Mode) String() string {
	if int(m) < len(modeName) {
		return modeName[m]
	}
	return "unknown"
}

// ParseMode 解析模式名称
func ParseMode(s string) (Mode, error) {
	for i, n := range modeName {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return ModeTransient, fmt.Errorf("未知仿真模式: %q", s)
}

// MarshalText 文本编码
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText 文本解码
func (m *Mode) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMode(string(text))
	return err
}

// ConfigFace 元件配置接口
type ConfigFace interface {
	GetConfig() *Config // 获取元件配置
	PinNum() int        // 引脚数量
}

// ElementFace 元件更新规则,只读取上一步快照,返回新的输出
type ElementFace interface {
	Transient(ctx Context, c *types.Component) types.Values // 瞬态规则
}

// DCFace 直流工作点规则,未实现时使用瞬态规则
type DCFace interface {
	DC(ctx Context, c *types.Component) types.Values
}

// ACFace 交流稳态规则,未实现时使用瞬态规则
type ACFace interface {
	AC(ctx Context, c *types.Component) types.Values
}

// ImpedanceFace 频域阻抗,用于交流串联近似与频率扫描
type ImpedanceFace interface {
	Impedance(c *types.Component, f float64) complex128
}

// Impedance 元件在频率f下的阻抗,类型没有阻抗模型时返回 false
func Impedance(c *types.Component, f float64) (complex128, bool) {
	if e, ok := ElementList[c.Kind].(ImpedanceFace); ok {
		return e.Impedance(c, f), true
	}
	return 0, false
}

// elementFace 配置与规则
type elementFace interface {
	ConfigFace
	ElementFace
}

// ElementList 已注册的元件类型
var ElementList = map[types.Kind]elementFace{}

// AddElement 注册元件类型,重复注册触发 panic
func AddElement(kind types.Kind, face elementFace) types.Kind {
	if _, ok := ElementList[kind]; ok {
		panic(fmt.Sprintf("元件重复注册: %s", kind))
	}
	if face.PinNum() != kind.TerminalCount() {
		panic(fmt.Sprintf("元件 %s 引脚数量不符: %d/%d", kind, face.PinNum(), kind.TerminalCount()))
	}
	ElementList[kind] = face
	return kind
}

// GetConfig 获取已注册类型的配置
func GetConfig(kind types.Kind) (*Config, bool) {
	if e, ok := ElementList[kind]; ok {
		return e.GetConfig(), true
	}
	return nil, false
}
