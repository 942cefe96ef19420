package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"circuitsim/simulation"
	"circuitsim/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(14).Align(lipgloss.Right)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Width(10)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// status 运行状态行
func status(snap simulation.Snapshot) string {
	stable := "未稳定"
	if snap.Stabilized {
		stable = "已稳定"
	}
	return fmt.Sprintf("%s  %s  t=%s  第%d步  %s", snap.State, snap.Mode, utils.FormatValue(snap.Time, "s"), snap.Step, stable)
}

// table 元件与连线数值表,selected 行高亮
func table(snap simulation.Snapshot, selected string) string {
	var s strings.Builder
	row := func(label string, cells ...string) {
		style := labelStyle
		if label == selected {
			style = activeStyle
		}
		s.WriteString(style.Render(label))
		for _, c := range cells {
			s.WriteString(valueStyle.Render(c))
		}
		s.WriteByte('\n')
	}
	row("", "电压", "电流", "功率")
	for _, e := range snap.Components {
		row(e.ID,
			utils.FormatValue(e.Values.Voltage, "V"),
			utils.FormatValue(e.Values.Current, "A"),
			utils.FormatValue(e.Values.Power, "W"))
	}
	for _, w := range snap.Wires {
		flag := ""
		if w.Flagged {
			flag = "悬空"
		}
		row(w.ID, "", utils.FormatValue(w.Current, "A"), flag)
	}
	return s.String()
}
