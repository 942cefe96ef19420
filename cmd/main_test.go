package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"circuitsim/config"
	"circuitsim/element"
	"circuitsim/simulation"
)

const divider = "../types/testdata/divider.json"

func TestCommonLoad(t *testing.T) {
	c := common{config: "missing.toml", mode: "ac", speed: 3, level: "warn"}
	cfg, err := c.load()
	if err != nil {
		t.Fatalf("读取失败: %s", err)
	}
	if cfg.Simulation.Mode != element.ModeAC || cfg.Simulation.Speed != 3 || cfg.LogLevel != "warn" {
		t.Errorf("命令行覆盖未生效: %+v", cfg.Simulation)
	}
	c.mode = "hybrid"
	if _, err := c.load(); err == nil {
		t.Errorf("未知模式应报错")
	}
	c.mode, c.speed = "", -1
	if _, err := c.load(); err == nil {
		t.Errorf("负速度应报错")
	}
}

func TestTable(t *testing.T) {
	s, err := open(config.Default(), true, divider)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	var snap simulation.Snapshot
	for range 100 {
		snap, _ = s.Step()
	}
	out := table(snap, "R1")
	for _, want := range []string{"R1", "R2", "w4", "5V", "5mA"} {
		if !strings.Contains(out, want) {
			t.Errorf("数值表缺少 %s:\n%s", want, out)
		}
	}
	if st := status(snap); !strings.Contains(st, "running") || !strings.Contains(st, "第100步") {
		t.Errorf("状态行错误: %s", st)
	}
}

// scripted 按预设结果返回的单步执行
type scripted struct {
	n    int
	errs []error
}

func (s *scripted) Step() (simulation.Snapshot, error) {
	s.n++
	return simulation.Snapshot{Step: uint64(s.n)}, s.errs[s.n-1]
}

func TestStepAll(t *testing.T) {
	bad := errors.New("R1 计算失败")
	s := &scripted{errs: []error{nil, bad, nil, nil}}
	snap, failed, last := stepAll(s, 4)
	if snap.Step != 4 || failed != 1 {
		t.Errorf("统计错误: step=%d failed=%d", snap.Step, failed)
	}
	// 最后一步成功时仍保留最近一次错误
	if !errors.Is(last, bad) {
		t.Errorf("应返回最后一个非空错误: %v", last)
	}
	if _, failed, last := stepAll(&scripted{errs: []error{nil, nil}}, 2); failed != 0 || last != nil {
		t.Errorf("全部成功时不应有错误: %d %v", failed, last)
	}
}

func TestWatchModel(t *testing.T) {
	s, err := open(config.Default(), true, divider)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	var m tea.Model = newWatchModel(s, config.Default())
	for range 3 {
		m, _ = m.Update(tickMsg{})
	}
	w := m.(watchModel)
	if w.snap.Step != 3 || w.record.Len() != 3 {
		t.Fatalf("定时推进错误: %d %d", w.snap.Step, w.record.Len())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if s.State() != simulation.Paused {
		t.Errorf("空格应暂停: %s", s.State())
	}
	m, _ = m.Update(tickMsg{})
	if m.(watchModel).snap.Step != 3 {
		t.Errorf("暂停时不应推进")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if s.Speed() != 2 {
		t.Errorf("速度应加倍: %v", s.Speed())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(watchModel).selected() != "V1.I" {
		t.Errorf("应切换到下一条曲线: %s", m.(watchModel).selected())
	}
	view := m.View()
	if !strings.Contains(view, "CIRCUITSIM") || !strings.Contains(view, "V1.I") {
		t.Errorf("界面内容错误:\n%s", view)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Errorf("q 应退出")
	}
}

func TestWriteRecord(t *testing.T) {
	cfg := config.Default()
	s, err := open(cfg, true, divider)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	m := newWatchModel(s, cfg)
	for range 5 {
		snap, _ := s.Step()
		m.record.Update(snap)
	}
	dir := t.TempDir()
	if err := writeRecord(m.record, dir, "R2.V"); err != nil {
		t.Fatalf("写出失败: %s", err)
	}
	for _, f := range []string{"record.json", "charts.html", "trace.png"} {
		if fi, err := os.Stat(filepath.Join(dir, f)); err != nil || fi.Size() == 0 {
			t.Errorf("%s 未写出", f)
		}
	}
}
