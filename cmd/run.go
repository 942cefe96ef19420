package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"circuitsim/scope"
	"circuitsim/simulation"
)

func runCommand(args []string) error {
	var c common
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	c.register(fs)
	steps := fs.Int("steps", 200, "运行步数")
	trace := fs.String("trace", "", "终端显示的曲线,如 R1.V")
	record := fs.Bool("record", false, "在输出目录写入 record.json、charts.html 与 trace.png")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("用法: circuitsim run [参数] 电路.json")
	}
	cfg, err := c.load()
	if err != nil {
		return err
	}
	s, err := open(cfg, true, fs.Arg(0))
	if err != nil {
		return err
	}
	defer s.Close()
	rec := scope.NewRecord(cfg.Scope.Capacity)
	events, cancel := s.Subscribe(2*(*steps)+16, simulation.EventUpdate, simulation.EventError, simulation.EventFrequencyResponse)
	done := make(chan struct{})
	go func() {
		rec.Follow(events)
		close(done)
	}()

	snap, failed, last := stepAll(s, *steps)
	cancel()
	<-done

	fmt.Println(headerStyle.Render(fs.Arg(0)))
	fmt.Println(status(snap))
	fmt.Println(table(snap, *trace))
	if failed > 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("%d 步出现错误,最后一次: %v", failed, last)))
	}
	name := *trace
	if name == "" && len(snap.Components) > 0 {
		name = snap.Components[0].ID + ".V"
	}
	if plot, ok := rec.ASCIITrace(name, cfg.Scope.Width, cfg.Scope.Height); ok {
		fmt.Println(graphStyle.Render(plot))
	}
	if *record {
		return writeRecord(rec, cfg.Scope.Output, name)
	}
	return nil
}

// writeRecord 写出记录、网页与图片
func writeRecord(rec *scope.Record, dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	write := func(file string, fn func(f *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, file))
		if err != nil {
			return err
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		return f.Close()
	}
	errs := []error{
		write("record.json", func(f *os.File) error { return rec.Render(f) }),
		write("charts.html", func(f *os.File) error { return (&scope.Charts{Record: rec}).Render(f) }),
	}
	if p, err := rec.PlotTraces(name, name); err == nil {
		errs = append(errs, write("trace.png", func(f *os.File) error { return scope.WritePlot(f, p, "png") }))
	}
	return errors.Join(errs...)
}

// stepper 单步执行
type stepper interface {
	Step() (simulation.Snapshot, error)
}

// stepAll 连续执行n步,返回最后的快照、出错步数与最后一个非空错误
func stepAll(s stepper, n int) (snap simulation.Snapshot, failed int, last error) {
	for range n {
		var err error
		if snap, err = s.Step(); err != nil {
			failed++
			last = err
		}
	}
	return snap, failed, last
}
