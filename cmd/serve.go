package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"circuitsim/scope"
	"circuitsim/server"
)

func serveCommand(args []string) error {
	var c common
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	c.register(fs)
	addr := fs.String("addr", "", "监听地址,覆盖配置")
	fs.Parse(args)
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	// 可选的初始电路,之后由浏览器控制
	s, err := open(cfg, false, fs.Arg(0))
	if err != nil {
		return err
	}
	defer s.Close()
	srv := server.New(s, scope.NewRecord(cfg.Scope.Capacity))
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
