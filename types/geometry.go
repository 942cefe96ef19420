package types

import "math"

// Point 画布坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance 两点距离
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rotate 绕原点旋转(角度制)
func (p Point) Rotate(deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: round9(p.X*cos - p.Y*sin),
		Y: round9(p.X*sin + p.Y*cos),
	}
}

// Add 平移
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Key 量化后的坐标键
type Key [2]int64

// Quantize 将坐标量化到网格
func (p Point) Quantize(grid float64) Key {
	if grid <= 0 {
		grid = NodeGrid
	}
	return Key{int64(math.Round(p.X / grid)), int64(math.Round(p.Y / grid))}
}

// terminalOffset 引脚相对元件中心的偏移(未旋转)
func terminalOffset(k Kind, i int) Point {
	s := TerminalSpan
	switch k {
	case KindGround:
		return Point{X: 0, Y: -s / 1.5}
	case KindTransistor:
		switch i {
		case 0:
			return Point{X: -s, Y: 0}
		case 1:
			return Point{X: s * 2 / 3, Y: -s}
		default:
			return Point{X: s * 2 / 3, Y: s}
		}
	case KindLogicGate:
		switch i {
		case 0:
			return Point{X: -s, Y: -s / 3}
		case 1:
			return Point{X: -s, Y: s / 3}
		default:
			return Point{X: s, Y: 0}
		}
	}
	if i == 0 {
		return Point{X: -s, Y: 0}
	}
	return Point{X: s, Y: 0}
}

// round9 消除旋转带来的浮点误差
func round9(v float64) float64 { return math.Round(v*1e9) / 1e9 }
