package scope

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"circuitsim/element"
	"circuitsim/simulation"
	"circuitsim/types"
	"circuitsim/utils"
)

func snapshot(step uint64, v float64) simulation.Snapshot {
	r1, _ := types.NewComponent("R1", types.KindResistor, types.Point{})
	g1, _ := types.NewComponent("G1", types.KindGround, types.Point{X: 100})
	r1.Values = types.Values{Voltage: v, Current: v / 1000}
	c := &types.Circuit{Components: []*types.Component{r1, g1}}
	w, _ := c.Connect("w1", "R1", 1, "G1", 0)
	w.Current = v / 1000
	return simulation.Snapshot{Components: c.Components, Wires: c.Wires, Time: float64(step) * 0.01, Step: step}
}

func TestRecord(t *testing.T) {
	r := NewRecord(3)
	for i := range 5 {
		r.Update(snapshot(uint64(i+1), float64(i)))
	}
	if r.Len() != 3 {
		t.Fatalf("应只保留3个点: %d", r.Len())
	}
	tm, v, ok := r.Series("R1.V")
	if !ok || len(v) != 3 || v[0] != 2 || v[2] != 4 {
		t.Errorf("电压曲线错误: %v", v)
	}
	if tm[0] != 0.03 {
		t.Errorf("时间列错误: %v", tm)
	}
	if _, w, _ := r.Series("w1.I"); w[2] != 0.004 {
		t.Errorf("连线电流曲线错误: %v", w)
	}
	if len(r.Links) != 2 || r.Links[0] != (Link{Component: "R1", Wire: "w1", Terminal: 1}) {
		t.Errorf("连接信息错误: %+v", r.Links)
	}

	// 新的运行从头记录
	r.Update(snapshot(1, 7))
	if _, v, _ := r.Series("R1.V"); len(v) != 1 || v[0] != 7 {
		t.Errorf("重新开始后应清空: %v", v)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("输出失败: %s", err)
	}
	var out struct {
		Elements []string `json:"elements"`
		Traces   []Trace  `json:"traces"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil || len(out.Elements) != 2 || len(out.Traces) != 5 {
		t.Errorf("JSON 内容错误: %v %+v", err, out)
	}
}

func TestRecordFollow(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.Manual = true
	s, err := simulation.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	events, cancel := s.Subscribe(256)
	defer cancel()
	c, err := types.LoadCircuit("../types/testdata/divider.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(c, element.ModeAC, 1); err != nil {
		t.Fatal(err)
	}
	for range 10 {
		if _, err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	s.Close()

	r := NewRecord(100)
	r.Follow(events)
	// 停止事件清空曲线,只保留连接信息
	if r.Len() != 0 || len(r.Elements) != 4 {
		t.Errorf("停止后记录错误: %d %v", r.Len(), r.Elements)
	}
}

func TestRecordHandle(t *testing.T) {
	r := NewRecord(10)
	r.Handle(utils.Event{Type: simulation.EventStarted, Value: snapshot(0, 0)})
	for i := range 4 {
		r.Handle(utils.Event{Type: simulation.EventUpdate, Value: snapshot(uint64(i+1), 5)})
	}
	r.Handle(utils.Event{Type: simulation.EventError, Value: simulation.ErrorReport{Error: simulation.ErrorDetail{Message: "x"}}})
	resp := simulation.FrequencyResponse{Source: "V1", Output: "C1", Data: []simulation.FrequencyPoint{
		{Frequency: 10, Magnitude: 1}, {Frequency: 100, Magnitude: 0.5, Phase: -45}, {Frequency: 1000, Magnitude: 0.1, Phase: -80},
	}}
	r.Handle(utils.Event{Type: simulation.EventFrequencyResponse, Value: resp})
	if r.Len() != 4 || len(r.Errors) != 1 || len(r.Response.Data) != 3 {
		t.Fatalf("事件处理错误: %d %d %d", r.Len(), len(r.Errors), len(r.Response.Data))
	}

	t.Run("网页", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&Charts{r}).Render(&buf); err != nil {
			t.Fatalf("生成网页失败: %s", err)
		}
		html := buf.String()
		for _, want := range []string{"电压曲线", "电流曲线", "频率响应", "R1.V"} {
			if !strings.Contains(html, want) {
				t.Errorf("网页缺少 %s", want)
			}
		}
	})

	t.Run("图片", func(t *testing.T) {
		p, err := r.PlotTraces("R1", "R1.V", "R1.I")
		if err != nil {
			t.Fatalf("绘图失败: %s", err)
		}
		var buf bytes.Buffer
		if err := WritePlot(&buf, p, "png"); err != nil {
			t.Fatalf("输出图片失败: %s", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Errorf("不是 PNG 数据")
		}
		bode, err := PlotBode(resp)
		if err != nil {
			t.Fatalf("频率响应绘图失败: %s", err)
		}
		buf.Reset()
		if err := WritePlot(&buf, bode, "svg"); err != nil || !strings.Contains(buf.String(), "<svg") {
			t.Errorf("输出 SVG 失败: %v", err)
		}
		if _, err := r.PlotTraces("x", "missing"); err == nil {
			t.Errorf("不存在的曲线应报错")
		}
		if _, err := PlotBode(simulation.FrequencyResponse{}); err == nil {
			t.Errorf("空频率响应应报错")
		}
	})

	t.Run("终端", func(t *testing.T) {
		s, ok := r.ASCIITrace("R1.V", 20, 4)
		if !ok || !strings.Contains(s, "R1.V") {
			t.Errorf("终端曲线错误: %q", s)
		}
		if _, ok := r.ASCIITrace("missing", 20, 4); ok {
			t.Errorf("不存在的曲线应返回 false")
		}
		if ASCII(nil, 10, 4, "") != "" {
			t.Errorf("空数据应返回空字符串")
		}
	})
}
