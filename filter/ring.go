package filter

import "golang.org/x/exp/constraints"

// Ring 定长历史窗口,写满后覆盖最旧的值
type Ring[T constraints.Float] struct {
	buf  []T
	head int // 下一次写入位置
	n    int
}

// NewRing 创建窗口
func NewRing[T constraints.Float](size int) *Ring[T] {
	return &Ring[T]{buf: make([]T, max(size, 1))}
}

// Push 写入
func (r *Ring[T]) Push(v T) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

// Len 当前数量
func (r *Ring[T]) Len() int { return r.n }

// Cap 窗口长度
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Values 按写入顺序返回窗口内容
func (r *Ring[T]) Values() []T {
	out := make([]T, 0, r.n)
	start := (r.head - r.n + len(r.buf)) % len(r.buf)
	for i := range r.n {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Last 最近写入的值
func (r *Ring[T]) Last() (T, bool) {
	if r.n == 0 {
		var zero T
		return zero, false
	}
	return r.buf[(r.head-1+len(r.buf))%len(r.buf)], true
}

// Resize 调整窗口长度,保留最近的值
func (r *Ring[T]) Resize(size int) {
	vals := r.Values()
	r.buf, r.head, r.n = make([]T, max(size, 1)), 0, 0
	if len(vals) > len(r.buf) {
		vals = vals[len(vals)-len(r.buf):]
	}
	for _, v := range vals {
		r.Push(v)
	}
}
