package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"circuitsim/rc"
	"circuitsim/scope"
	"circuitsim/types"
	"circuitsim/utils"
)

func rcCommand(args []string) error {
	d := rc.Default()
	fs := flag.NewFlagSet("rc", flag.ExitOnError)
	r := fs.String("r", utils.FormatValue(d.Resistance, ""), "电阻,可带单位前缀")
	capText := fs.String("c", utils.FormatValue(d.Capacitance, ""), "电容,可带单位前缀")
	v := fs.Float64("v", d.Voltage, "电源电压")
	mode := fs.String("mode", "charging", "charging/discharging/both")
	points := fs.Int("points", 1000, "采样点数")
	out := fs.String("png", "", "写出曲线图片")
	engine := fs.Bool("engine", false, "叠加仿真引擎的电容曲线(仅充电)")
	fs.Parse(args)

	var c rc.Circuit
	var err error
	if c.Resistance, err = utils.ParseValue(*r); err != nil {
		return err
	}
	if c.Capacitance, err = utils.ParseValue(*capText); err != nil {
		return err
	}
	c.Voltage = *v
	m, err := rc.ParseMode(*mode)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		utils.GetLogger().Warnf("参数超出交互调节范围: %v", err)
	}

	tau := c.Tau()
	charged, discharged := c.Landmarks()
	fmt.Println(headerStyle.Render("RC 电路"))
	fmt.Printf("时间常数 τ = RC = %s\n", utils.FormatValue(tau, "s"))
	fmt.Printf("经过 1τ: 充电达到 %.1f%% (%s),放电降至 %.1f%% (%s)\n",
		100*(1-math.Exp(-1)), utils.FormatValue(charged, "V"),
		100*math.Exp(-1), utils.FormatValue(discharged, "V"))
	fmt.Printf("经过 5τ (%s): 基本充满或放完\n", utils.FormatValue(5*tau, "s"))

	s, err := c.Simulate(c.Window(m), *points, m)
	if err != nil {
		return err
	}
	fmt.Println(graphStyle.Render(scope.ASCII(s.Voltage, 72, 12, m.String()+" V")))
	if *out == "" {
		return nil
	}
	var trace *rc.Samples
	if *engine && m == rc.Charging {
		steps := int(math.Ceil(c.Window(m) / types.StepTimeBase))
		e, err := c.Engine(steps)
		if err != nil {
			return err
		}
		trace = &e
	}
	p, err := c.Plot(m, s, trace)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := scope.WritePlot(f, p, "png"); err != nil {
		return err
	}
	return f.Close()
}
