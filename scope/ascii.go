package scope

import (
	"github.com/guptarohit/asciigraph"
)

// ASCII 终端曲线,只取最近 width 个点
func ASCII(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	opts := []asciigraph.Option{asciigraph.Height(max(height, 2)), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, opts...)
}

// ASCIITrace 按名称绘制记录中的曲线
func (r *Record) ASCIITrace(name string, width, height int) (string, bool) {
	_, values, ok := r.Series(name)
	if !ok {
		return "", false
	}
	return ASCII(values, width, height, name), true
}
