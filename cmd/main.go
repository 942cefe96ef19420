package main

import (
	"flag"
	"fmt"
	"os"

	"circuitsim/config"
	"circuitsim/element"
	"circuitsim/simulation"
	"circuitsim/types"
	"circuitsim/utils"
)

const usage = `circuitsim <命令> [参数]

命令:
  run    无界面运行电路并输出结果
  serve  启动浏览器接口
  watch  终端示波器
  rc     RC 充放电参考曲线
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(os.Args[2:])
	case "serve":
		err = serveCommand(os.Args[2:])
	case "watch":
		err = watchCommand(os.Args[2:])
	case "rc":
		err = rcCommand(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "未知命令 %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		utils.GetLogger().Errorf("%s", err)
		os.Exit(1)
	}
}

// common 各命令共用的参数
type common struct {
	config string
	mode   string
	speed  float64
	level  string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "circuitsim.toml", "配置文件")
	fs.StringVar(&c.mode, "mode", "", "仿真模式 transient/dc/ac,覆盖配置")
	fs.Float64Var(&c.speed, "speed", 0, "仿真速度,覆盖配置")
	fs.StringVar(&c.level, "log", "", "日志等级,覆盖配置")
}

// load 读取配置并应用命令行覆盖
func (c *common) load() (config.Config, error) {
	cfg, err := config.LoadOrDefault(c.config)
	if err != nil {
		return cfg, err
	}
	if c.mode != "" {
		if cfg.Simulation.Mode, err = element.ParseMode(c.mode); err != nil {
			return cfg, err
		}
	}
	if c.speed != 0 {
		cfg.Simulation.Speed = c.speed
	}
	if c.level != "" {
		cfg.LogLevel = c.level
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	utils.SetLogger(cfg.Logger())
	return cfg, nil
}

// open 创建会话并启动电路
func open(cfg config.Config, manual bool, filename string) (*simulation.Session, error) {
	s, err := simulation.New(cfg.Session(manual))
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return s, nil
	}
	c, err := types.LoadCircuit(filename)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := s.Start(c, cfg.Simulation.Mode, cfg.Simulation.Speed); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
