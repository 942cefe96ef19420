package element

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp 限幅
func Clamp[T constraints.Float | constraints.Integer](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Round 保留小数位
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// Finite 非有限值替换为0
func Finite[T constraints.Float](v T) T {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}

// IsFinite 是否为有限值
func IsFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
