package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"circuitsim/element"
	"circuitsim/filter"
	"circuitsim/simulation"
	"circuitsim/types"
	"circuitsim/utils"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置应有效: %s", err)
	}
	sc := cfg.Session(true)
	if !sc.Manual || sc.Linker.Tolerance != types.ReconnectTolerance || sc.Corrector.MaxHops != types.MaxHops {
		t.Errorf("会话配置错误: %+v", sc)
	}
	if _, err := simulation.New(sc); err != nil {
		t.Errorf("默认会话创建失败: %s", err)
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/circuitsim.toml")
	if err != nil {
		t.Fatalf("读取失败: %s", err)
	}
	if cfg.LogLevel != "debug" || cfg.Logger().Level() != utils.LogLevelDebug {
		t.Errorf("日志级别错误: %s", cfg.LogLevel)
	}
	if cfg.Simulation.Mode != element.ModeAC || cfg.Simulation.Speed != 2.5 {
		t.Errorf("仿真参数错误: %+v", cfg.Simulation)
	}
	if cfg.Simulation.Accuracy.Accuracy != filter.AccuracyHigh || cfg.Simulation.Accuracy.StabilityFactor != 0.4 {
		t.Errorf("精度参数错误: %+v", cfg.Simulation.Accuracy)
	}
	if cfg.Wire.Tolerance != 20 || cfg.Wire.MaxWires != types.MaxTerminalWires {
		t.Errorf("连线参数错误: %+v", cfg.Wire)
	}
	if cfg.Sweep.Start != 1 || cfg.Sweep.Stop != 1e5 || cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("扫描或服务参数错误: %+v %+v", cfg.Sweep, cfg.Server)
	}
	if cfg.Simulation.Grid != types.NodeGrid || cfg.Scope.Capacity != 1000 {
		t.Errorf("未给出的项应保持默认值")
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		text string
	}{
		{"速度", "[simulation]\nspeed = 0.0\n"},
		{"模式", "[simulation]\nmode = \"hybrid\"\n"},
		{"精度", "[simulation.accuracy]\nstability_factor = 2.0\n"},
		{"扫描", "[sweep]\nstart = 100.0\nstop = 10.0\n"},
		{"日志", "log_level = \"verbose\"\n"},
		{"语法", "[simulation\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, tt.name+".toml")
			if err := os.WriteFile(file, []byte(tt.text), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(file); err == nil {
				t.Errorf("应返回错误")
			}
		})
	}

	file := filepath.Join(dir, "speed.toml")
	os.WriteFile(file, []byte("[simulation]\nspeed = -1.0\n"), 0o644)
	if _, err := Load(file); !errors.Is(err, simulation.ErrInvalidSpeed) {
		t.Errorf("应包含速度错误: %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Mode = element.ModeDC
	cfg.Simulation.Accuracy.Accuracy = filter.AccuracyUltra
	file := filepath.Join(t.TempDir(), "out.toml")
	if err := cfg.Write(file); err != nil {
		t.Fatalf("写出失败: %s", err)
	}
	back, err := Load(file)
	if err != nil {
		t.Fatalf("读回失败: %s", err)
	}
	if back != cfg {
		t.Errorf("往返结果不一致: %+v", back)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil || cfg != Default() {
		t.Errorf("文件不存在时应使用默认配置: %v", err)
	}
}
