package filter

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"circuitsim/types"
)

// Quantity 被滤波的物理量
type Quantity uint8

// 物理量
const (
	Voltage Quantity = iota
	Current
)

// Key 滤波通道
type Key struct {
	ID       string // 元件ID或连线ID
	Wire     bool
	Quantity Quantity
}

// 信号质量判定
const (
	fluctuationRatio = 0.15 // 相对EMA的归一化偏差阈值
	fluctuationHigh  = 5    // 超过后取中值
	fluctuationLow   = 2    // 达到后取EMA
	rawWeight        = 0.7  // 稳定时原始值权重
	minReference     = 1e-6
)

// channel 单个通道的历史
type channel struct {
	window *Ring[float64]
	ema    float64
	primed bool
	fluct  int
	steady int
}

// Bank 按通道平滑每步结果,电源不参与
type Bank struct {
	preset   Preset
	channels map[Key]*channel
}

// NewBank 创建滤波器
func NewBank(p Preset) *Bank {
	return &Bank{preset: p, channels: map[Key]*channel{}}
}

// Preset 当前参数
func (b *Bank) Preset() Preset { return b.preset }

// SetPreset 调整参数,已有历史按新窗口长度截断
func (b *Bank) SetPreset(p Preset) {
	b.preset = p
	for _, ch := range b.channels {
		ch.window.Resize(p.Window)
	}
}

// Reset 清空全部历史
func (b *Bank) Reset() { clear(b.channels) }

// Forget 清空指定元件或连线的历史
func (b *Bank) Forget(id string) {
	for k := range b.channels {
		if k.ID == id {
			delete(b.channels, k)
		}
	}
}

// Len 通道数量
func (b *Bank) Len() int { return len(b.channels) }

// Filter 写入原始值并返回平滑后的输出
func (b *Bank) Filter(k Key, raw float64) float64 {
	ch, ok := b.channels[k]
	if !ok {
		ch = &channel{window: NewRing[float64](b.preset.Window)}
		b.channels[k] = ch
	}
	ch.window.Push(raw)
	if !ch.primed {
		ch.ema, ch.primed = raw, true
	}
	diff := math.Abs(raw-ch.ema) / max(math.Abs(ch.ema), minReference)
	if diff > fluctuationRatio {
		ch.fluct++
		ch.steady = 0
	} else {
		ch.steady++
		ch.fluct = 0
	}
	ch.ema = b.preset.Smoothing*raw + (1-b.preset.Smoothing)*ch.ema

	var out float64
	switch {
	case ch.fluct > fluctuationHigh:
		out = median(ch.window.Values())
	case ch.fluct >= fluctuationLow:
		out = ch.ema
	default:
		out = rawWeight*raw + (1-rawWeight)*ch.ema
	}
	return max(-types.FilterOutputLimit, min(out, types.FilterOutputLimit))
}

// Stats 通道窗口统计
type Stats struct {
	Mean     float64 `json:"mean"`     // 移动平均
	Variance float64 `json:"variance"` // 窗口方差
	EMA      float64 `json:"ema"`      // 指数平均
	Fluct    int     `json:"fluct"`    // 波动计数
	Steady   int     `json:"steady"`   // 稳定计数
}

// Stats 查询通道统计
func (b *Bank) Stats(k Key) (Stats, bool) {
	ch, ok := b.channels[k]
	if !ok {
		return Stats{}, false
	}
	vals := ch.window.Values()
	s := Stats{EMA: ch.ema, Fluct: ch.fluct, Steady: ch.steady}
	if len(vals) > 0 {
		s.Mean = stat.Mean(vals, nil)
	}
	if len(vals) > 1 {
		s.Variance = stat.Variance(vals, nil)
	}
	return s, true
}

// Stabilized 所有通道窗口写满且方差不超过阈值
func (b *Bank) Stabilized() bool {
	if len(b.channels) == 0 {
		return false
	}
	for k, ch := range b.channels {
		if ch.window.Len() < ch.window.Cap() {
			return false
		}
		if s, _ := b.Stats(k); s.Variance > b.preset.VarianceThreshold {
			return false
		}
	}
	return true
}

// Apply 平滑电路中非电源元件与连线的电压电流,并同步功率与引脚电流
func (b *Bank) Apply(c *types.Circuit) {
	for _, e := range c.Components {
		if e.Kind.IsSource() || e.Kind == types.KindGround {
			continue
		}
		v := b.Filter(Key{ID: e.ID, Quantity: Voltage}, e.Values.Voltage)
		i := b.Filter(Key{ID: e.ID, Quantity: Current}, e.Values.Current)
		e.Values.Voltage, e.Values.Current = v, i
		if e.Kind.IsTwoTerminal() {
			e.Values.Pins = []float64{i, -i}
		}
		e.Values.Power = v * i
	}
	for _, w := range c.Wires {
		w.Voltage = b.Filter(Key{ID: w.ID, Wire: true, Quantity: Voltage}, w.Voltage)
		w.Current = b.Filter(Key{ID: w.ID, Wire: true, Quantity: Current}, w.Current)
	}
}

// median 中值,gonum 分位数要求有序输入
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	if len(sorted)%2 == 0 {
		m := len(sorted) / 2
		return (sorted[m-1] + sorted[m]) / 2
	}
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
