package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"circuitsim/element"
	"circuitsim/filter"
	"circuitsim/kirchhoff"
	"circuitsim/simulation"
	"circuitsim/types"
	"circuitsim/utils"
	"circuitsim/wirelink"
)

// Config 配置文件内容,未给出的项保持默认值
type Config struct {
	LogLevel   string     `toml:"log_level"`
	Simulation Simulation `toml:"simulation"`
	Wire       Wire       `toml:"wire"`
	Corrector  Corrector  `toml:"corrector"`
	Sweep      Sweep      `toml:"sweep"`
	Server     Server     `toml:"server"`
	Scope      Scope      `toml:"scope"`
}

// Simulation 仿真参数
type Simulation struct {
	Mode     element.Mode    `toml:"mode"`
	Speed    float64         `toml:"speed"`
	Grid     float64         `toml:"grid"`
	Accuracy filter.Settings `toml:"accuracy"`
}

// Wire 连线修复
type Wire struct {
	Tolerance float64 `toml:"tolerance"` // 断线修复搜索半径
	MaxWires  int     `toml:"max_wires"` // 非地引脚最大连线数
}

// Corrector 回路与节点校正
type Corrector struct {
	KVLThreshold float64 `toml:"kvl_threshold"`
	KCLThreshold float64 `toml:"kcl_threshold"`
	MaxHops      int     `toml:"max_hops"`
}

// Sweep 频率扫描范围
type Sweep struct {
	Start float64 `toml:"start"`
	Stop  float64 `toml:"stop"`
}

// Server 网页端
type Server struct {
	Addr string `toml:"addr"`
}

// Scope 示波器记录
type Scope struct {
	Capacity int    `toml:"capacity"` // 每条曲线保留的点数
	Width    int    `toml:"width"`    // 终端曲线宽度
	Height   int    `toml:"height"`   // 终端曲线高度
	Output   string `toml:"output"`   // 记录输出目录
}

// Default 默认配置
func Default() Config {
	return Config{
		LogLevel: "info",
		Simulation: Simulation{
			Mode:     element.ModeTransient,
			Speed:    1,
			Grid:     types.NodeGrid,
			Accuracy: filter.Settings{Accuracy: filter.AccuracyMedium},
		},
		Wire: Wire{Tolerance: types.ReconnectTolerance, MaxWires: types.MaxTerminalWires},
		Corrector: Corrector{
			KVLThreshold: types.KVLThreshold,
			KCLThreshold: types.KCLThreshold,
			MaxHops:      types.MaxHops,
		},
		Sweep:  Sweep{Start: types.SweepStartFrequency, Stop: types.SweepStopFrequency},
		Server: Server{Addr: ":8080"},
		Scope:  Scope{Capacity: 1000, Width: 72, Height: 12, Output: "."},
	}
}

// Load 读取配置文件,文件中未出现的项取默认值
func Load(filename string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(filename, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("读取配置 %s: %w", filename, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		utils.GetLogger().Warnf("配置 %s 中存在未知项: %v", filename, keys)
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault 文件不存在时使用默认配置
func LoadOrDefault(filename string) (Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(filename)
}

// Validate 检查取值范围
func (c Config) Validate() error {
	var errs []error
	if _, err := utils.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if !(c.Simulation.Speed > 0) {
		errs = append(errs, fmt.Errorf("%w: %v", simulation.ErrInvalidSpeed, c.Simulation.Speed))
	}
	if !(c.Simulation.Grid > 0) {
		errs = append(errs, fmt.Errorf("节点网格必须为正数: %v", c.Simulation.Grid))
	}
	if _, err := c.Simulation.Accuracy.Resolve(); err != nil {
		errs = append(errs, err)
	}
	if c.Wire.Tolerance < 0 || c.Wire.MaxWires < 1 {
		errs = append(errs, fmt.Errorf("连线参数无效: %+v", c.Wire))
	}
	if c.Corrector.KVLThreshold < 0 || c.Corrector.KCLThreshold < 0 || c.Corrector.MaxHops < 2 {
		errs = append(errs, fmt.Errorf("校正参数无效: %+v", c.Corrector))
	}
	if !(c.Sweep.Start > 0 && c.Sweep.Stop > c.Sweep.Start) {
		errs = append(errs, fmt.Errorf("扫描范围无效: %v-%v", c.Sweep.Start, c.Sweep.Stop))
	}
	if c.Scope.Capacity < 1 {
		errs = append(errs, fmt.Errorf("示波器容量无效: %d", c.Scope.Capacity))
	}
	return errors.Join(errs...)
}

// Session 会话配置
func (c Config) Session(manual bool) simulation.Config {
	return simulation.Config{
		Manual:   manual,
		Accuracy: c.Simulation.Accuracy,
		Grid:     c.Simulation.Grid,
		Linker:   wirelink.Linker{Tolerance: c.Wire.Tolerance, MaxWires: c.Wire.MaxWires},
		Corrector: kirchhoff.Corrector{
			KVLThreshold: c.Corrector.KVLThreshold,
			KCLThreshold: c.Corrector.KCLThreshold,
			MaxHops:      c.Corrector.MaxHops,
		},
		SweepStart:  c.Sweep.Start,
		SweepStop:   c.Sweep.Stop,
		EventBuffer: 64,
	}
}

// Logger 按配置的级别创建日志
func (c Config) Logger() *utils.Logger {
	level, err := utils.ParseLogLevel(c.LogLevel)
	if err != nil {
		level = utils.LogLevelInfo
	}
	return utils.NewLogger(os.Stderr, level, "[circuitsim] ")
}

// Write 以 TOML 格式写出
func (c Config) Write(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return err
	}
	return f.Close()
}
