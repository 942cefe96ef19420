package element

import (
	"fmt"
	"math"
	"strings"

	"circuitsim/types"
	"circuitsim/utils"
)

// Param 参数描述
type Param struct {
	Name    string  // 属性名
	Unit    string  // 单位
	Default float64 // 默认值
	Min     float64 // 下限
	Max     float64 // 上限
	Enum    bool    // 枚举参数只接受整数
}

// Valid 值是否有效
func (p Param) Valid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < p.Min || v > p.Max {
		return false
	}
	return !p.Enum || v == math.Trunc(v)
}

// Config 元件配置,注册后不变
type Config struct {
	Name   string   // 元件名称
	Pin    []string // 引脚名称
	Params []Param  // 参数描述
}

// GetConfig 获取配置
func (config *Config) GetConfig() *Config { return config }

// PinNum 引脚数量
func (config *Config) PinNum() int { return len(config.Pin) }

// Param 按名称查找参数描述
func (config *Config) Param(name string) (Param, bool) {
	for _, p := range config.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Defaults 生成填充默认值的参数
func (config *Config) Defaults(k types.Kind) (types.Params, error) {
	params, err := types.NewParams(k)
	if err != nil {
		return nil, err
	}
	for _, p := range config.Params {
		if !params.Set(p.Name, p.Default) {
			return nil, fmt.Errorf("%s 参数 %s 无法写入", config.Name, p.Name)
		}
	}
	return params, nil
}

// Sanitize 将非法参数替换为默认值,返回被替换的参数名
func (config *Config) Sanitize(params types.Params) (fixed []string) {
	for _, p := range config.Params {
		v, ok := params.Get(p.Name)
		if ok && p.Valid(v) {
			continue
		}
		params.Set(p.Name, p.Default)
		fixed = append(fixed, p.Name)
	}
	return fixed
}

// ParseProperty 解析属性文本,数值支持工程前缀,枚举属性接受名称
func ParseProperty(name, text string) (float64, error) {
	if v, err := utils.ParseValue(text); err == nil {
		return v, nil
	}
	var (
		n   int
		err error
	)
	switch strings.ToLower(name) {
	case "waveform":
		var w types.Waveform
		w, err = types.ParseWaveform(text)
		n = int(w)
	case "polarity":
		var p types.Polarity
		p, err = types.ParsePolarity(text)
		n = int(p)
	case "gate":
		var g types.Gate
		g, err = types.ParseGate(text)
		n = int(g)
	default:
		return 0, fmt.Errorf("属性 %s 的值无法解析: %q", name, text)
	}
	return float64(n), err
}
