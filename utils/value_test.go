package utils

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1000", 1000},
		{"1k", 1e3},
		{"4.7uF", 4.7e-6},
		{"10mA", 10e-3},
		{"2.2meg", 2.2e6},
		{"3M", 3e6},
		{"100Ω", 100},
		{"1e-3", 1e-3},
		{"-5V", -5},
		{" 60Hz ", 60},
		{".5", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if err != nil {
				t.Fatalf("解析失败: %s", err)
			}
			if math.Abs(got-tt.want) > math.Abs(tt.want)*1e-12 {
				t.Errorf("期望 %v, 实际 %v", tt.want, got)
			}
		})
	}
	for _, bad := range []string{"", "k", "1x", "1kk"} {
		if _, err := ParseValue(bad); err == nil {
			t.Errorf("%q 应解析失败", bad)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    float64
		unit string
		want string
	}{
		{1000, "Ω", "1kΩ"},
		{4.7e-6, "F", "4.7uF"},
		{0.005, "A", "5mA"},
		{0, "V", "0V"},
		{-12, "V", "-12V"},
		{1e-18, "A", "0.001fA"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v, tt.unit); got != tt.want {
			t.Errorf("FormatValue(%v) 期望 %q, 实际 %q", tt.v, tt.want, got)
		}
	}
}
