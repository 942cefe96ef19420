package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"circuitsim/config"
	"circuitsim/scope"
	"circuitsim/simulation"
)

type tickMsg time.Time

// watchModel 终端示波器
type watchModel struct {
	session *simulation.Session
	record  *scope.Record
	snap    simulation.Snapshot
	traces  []string
	current int
	width   int
	height  int
	err     error
}

func newWatchModel(s *simulation.Session, cfg config.Config) watchModel {
	m := watchModel{
		session: s,
		record:  scope.NewRecord(cfg.Scope.Capacity),
		snap:    s.Snapshot(),
		width:   cfg.Scope.Width,
		height:  cfg.Scope.Height,
	}
	for _, e := range m.snap.Components {
		m.traces = append(m.traces, e.ID+".V", e.ID+".I")
	}
	return m
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(simulation.Interval(m.session.Speed()), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd { return m.tick() }

// Update 处理按键并推进仿真
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.session.State() == simulation.Paused {
				m.err = m.session.Resume()
			} else {
				m.err = m.session.Pause()
			}
		case "tab":
			if len(m.traces) > 0 {
				m.current = (m.current + 1) % len(m.traces)
			}
		case "+", "=":
			m.err = m.session.UpdateSpeed(m.session.Speed() * 2)
		case "-", "_":
			m.err = m.session.UpdateSpeed(m.session.Speed() / 2)
		}
		m.snap = m.session.Snapshot()
	case tickMsg:
		if m.session.State() == simulation.Running {
			snap, err := m.session.Step()
			m.snap, m.err = snap, err
			m.record.Update(snap)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) selected() string {
	if len(m.traces) == 0 {
		return ""
	}
	return m.traces[m.current]
}

// View 数值表与当前曲线
func (m watchModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("CIRCUITSIM") + "\n")
	s.WriteString(status(m.snap) + "  ×" + fmt.Sprint(m.session.Speed()) + "\n\n")
	name := m.selected()
	s.WriteString(table(m.snap, strings.SplitN(name, ".", 2)[0]))
	if plot, ok := m.record.ASCIITrace(name, m.width, m.height); ok {
		s.WriteString(graphStyle.Render(plot) + "\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("空格 暂停/继续  tab 切换曲线  +/- 速度  q 退出"))
	return s.String()
}

func watchCommand(args []string) error {
	var c common
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	c.register(fs)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("用法: circuitsim watch [参数] 电路.json")
	}
	cfg, err := c.load()
	if err != nil {
		return err
	}
	// 由界面定时器驱动单步
	s, err := open(cfg, true, fs.Arg(0))
	if err != nil {
		return err
	}
	defer s.Close()
	_, err = tea.NewProgram(newWatchModel(s, cfg), tea.WithAltScreen()).Run()
	return err
}
