package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// siPrefix 国际单位制词头
var siPrefix = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"M":   1e6,
	"meg": 1e6,
	"k":   1e3,
	"K":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"µ":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

// valueRe 数值 + 可选词头 + 可选单位
var valueRe = regexp.MustCompile(`^([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)\s*(meg|[TGMkKmuµnpf])?(Ω|ohm|Hz|[FHVAWs])?$`)

// ParseValue 解析带词头的数值,如 1k、4.7uF、10mA、2.2meg
func ParseValue(s string) (float64, error) {
	m := valueRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("数值格式错误: %q", s)
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("数值格式错误: %q: %w", s, err)
	}
	// 单独的 M 按兆处理,与 m 区分
	if p, ok := siPrefix[m[2]]; ok {
		num *= p
	}
	return num, nil
}

// formatPrefix 输出使用的词头
var formatPrefix = []struct {
	exp  int
	name string
}{
	{12, "T"}, {9, "G"}, {6, "M"}, {3, "k"}, {0, ""},
	{-3, "m"}, {-6, "u"}, {-9, "n"}, {-12, "p"}, {-15, "f"},
}

// FormatValue 按工程计数法输出,保留三位有效数字
func FormatValue(v float64, unit string) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', 3, 64) + unit
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))/3)) * 3
	// Log10 在整数幂附近可能略小
	if math.Abs(v)/math.Pow10(exp) >= 1000 {
		exp += 3
	}
	for _, p := range formatPrefix {
		if exp >= p.exp {
			s := strconv.FormatFloat(v/math.Pow10(p.exp), 'g', 3, 64)
			return s + p.name + unit
		}
	}
	last := formatPrefix[len(formatPrefix)-1]
	return strconv.FormatFloat(v/math.Pow10(last.exp), 'g', 3, 64) + last.name + unit
}
