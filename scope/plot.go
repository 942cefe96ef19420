package scope

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"circuitsim/simulation"
)

// 图片尺寸
var (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// Curve 一条 x-y 曲线
type Curve struct {
	Name string
	X, Y []float64
}

func (c Curve) xys() plotter.XYs {
	n := min(len(c.X), len(c.Y))
	pts := make(plotter.XYs, n)
	for i := range n {
		pts[i].X, pts[i].Y = c.X[i], c.Y[i]
	}
	return pts
}

// NewPlot 多条曲线绘制在同一坐标系
func NewPlot(title, xLabel, yLabel string, curves ...Curve) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	for i, c := range curves {
		line, err := plotter.NewLine(c.xys())
		if err != nil {
			return nil, fmt.Errorf("曲线 %s: %w", c.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}
	p.Legend.Top = true
	return p, nil
}

// WritePlot 输出图片,format 为 png、svg、pdf 等
func WritePlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// PlotTraces 按名称选取记录中的曲线
func (r *Record) PlotTraces(title string, names ...string) (*plot.Plot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var curves []Curve
	unit := ""
	for _, t := range r.Traces {
		if len(names) > 0 && !slices.Contains(names, t.Name) {
			continue
		}
		curves = append(curves, Curve{Name: t.Name, X: r.Time, Y: t.Values})
		unit = t.Unit
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("没有可绘制的曲线: %v", names)
	}
	return NewPlot(title, "t (s)", unit, curves...)
}

// PlotBode 频率响应幅值(dB)曲线,横轴对数
func PlotBode(resp simulation.FrequencyResponse) (*plot.Plot, error) {
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("频率响应为空")
	}
	gain := Curve{Name: "|H| (dB)"}
	phase := Curve{Name: "phase (°/10)"}
	for _, p := range resp.Data {
		gain.X = append(gain.X, p.Frequency)
		gain.Y = append(gain.Y, 20*math.Log10(max(p.Magnitude, 1e-12)))
		phase.X = append(phase.X, p.Frequency)
		phase.Y = append(phase.Y, p.Phase/10)
	}
	p, err := NewPlot(fmt.Sprintf("%s → %s", resp.Source, resp.Output), "f (Hz)", "dB", gain, phase)
	if err != nil {
		return nil, err
	}
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	return p, nil
}
