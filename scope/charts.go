package scope

import (
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"circuitsim/utils"
)

// Charts 网页曲线
type Charts struct {
	*Record
}

// legend 纵向滚动图例
var legend = opts.Legend{
	Type:   "scroll",
	Orient: "vertical",
	Right:  "2%",
	Top:    "15%",
	Bottom: "5%",
}

// newLine 时间曲线
func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(legend),
		charts.WithXAxisOpts(opts.XAxis{Name: "t", SplitNumber: 10}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		// 默认显示最近的一段
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 80, End: 100, XAxisIndex: []int{0}}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 80, End: 100, XAxisIndex: []int{0}}),
	)
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

// topology 元件与连线关系图
func (c *Charts) topology() *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "电路连接",
			Subtitle: "元件与连线关系图",
		}),
		charts.WithLegendOpts(legend),
	)
	nodes := make([]opts.GraphNode, 0, len(c.Elements)+len(c.Wires))
	for _, id := range c.Elements {
		nodes = append(nodes, opts.GraphNode{Name: id, Category: 0, Tooltip: &opts.Tooltip{Show: opts.Bool(true)}})
	}
	for _, id := range c.Wires {
		nodes = append(nodes, opts.GraphNode{Name: id, Category: 1, Tooltip: &opts.Tooltip{Show: opts.Bool(true)}})
	}
	links := make([]opts.GraphLink, 0, len(c.Links))
	for _, l := range c.Links {
		links = append(links, opts.GraphLink{Source: l.Component, Target: l.Wire, Value: float32(l.Terminal)})
	}
	graph.AddSeries("电路列表", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Categories: []*opts.GraphCategory{
				{Name: "元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
				{Name: "连线", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
			},
			Roam:               opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 80},
			EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
			FocusNodeAdjacency: opts.Bool(true),
		}))
	return graph
}

// traces 按单位分组的时间曲线
func (c *Charts) traces(unit, title, subtitle string) *charts.Line {
	line := newLine(title, subtitle)
	line.SetXAxis(c.Time)
	for _, t := range c.Traces {
		if t.Unit == unit {
			line.AddSeries(t.Name, lineData(t.Values))
		}
	}
	return line
}

// bode 频率响应幅值(dB)与相位
func (c *Charts) bode() *charts.Line {
	line := newLine("频率响应", strings.TrimSpace(c.Response.Source+" → "+c.Response.Output))
	line.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: "f"}))
	freqs := make([]string, len(c.Response.Data))
	gain := make([]float64, len(c.Response.Data))
	phase := make([]float64, len(c.Response.Data))
	for i, p := range c.Response.Data {
		freqs[i] = utils.FormatValue(p.Frequency, "Hz")
		gain[i] = 20 * math.Log10(max(p.Magnitude, 1e-12))
		phase[i] = p.Phase
	}
	line.SetXAxis(freqs).
		AddSeries("幅值(dB)", lineData(gain)).
		AddSeries("相位(°)", lineData(phase))
	return line
}

// Render 生成网页
func (c *Charts) Render(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page := components.NewPage()
	page.AddCharts(
		c.topology(),
		c.traces("V", "电压曲线", "元件电压随时间变化曲线"),
		c.traces("A", "电流曲线", "元件与连线电流随时间变化曲线"),
	)
	if len(c.Response.Data) > 0 {
		page.AddCharts(c.bode())
	}
	return page.Render(w)
}

// Handler 发布到网页
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(w); err != nil {
		utils.GetLogger().Errorf("曲线页面生成失败: %s", err)
	}
}
