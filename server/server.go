package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"circuitsim/scope"
	"circuitsim/simulation"
	"circuitsim/utils"
)

// Server 浏览器接口: 推送仿真事件,接收控制消息
type Server struct {
	session *simulation.Session
	record  *scope.Record
	hub     *hub
	mux     *http.ServeMux
	cancel  func()
	done    chan struct{}
}

// New 订阅会话事件并注册路由
func New(session *simulation.Session, record *scope.Record) *Server {
	s := &Server{
		session: session,
		record:  record,
		hub:     newHub(),
		mux:     http.NewServeMux(),
		done:    make(chan struct{}),
	}
	s.registerHandlers(s.mux)
	var events <-chan utils.Event
	events, s.cancel = session.Subscribe(256)
	go s.forward(events)
	return s
}

func (s *Server) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) { s.hub.handle(s, w, r) })
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/control", s.handleControl)
	if s.record != nil {
		mux.HandleFunc("/debug/charts", (&scope.Charts{Record: s.record}).Handler)
		mux.HandleFunc("/debug/record", s.handleRecord)
	}
}

// forward 事件写入记录并广播
func (s *Server) forward(events <-chan utils.Event) {
	defer close(s.done)
	for e := range events {
		if s.record != nil {
			s.record.Handle(e)
		}
		data, err := encode(simulation.EventName(e.Type), e.Value)
		if err != nil {
			utils.GetLogger().Errorf("事件编码失败: %v", err)
			continue
		}
		s.hub.send(data)
	}
}

// ServeHTTP 实现 http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe 监听直到 ctx 取消
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	utils.GetLogger().Infof("浏览器接口监听 %s", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close 取消订阅并断开全部连接
func (s *Server) Close() {
	s.cancel()
	<-s.done
	s.hub.close()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.session.Snapshot()); err != nil {
		http.Error(w, "快照编码失败", http.StatusInternalServerError)
	}
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := s.record.Render(w); err != nil {
		utils.GetLogger().Errorf("记录输出失败: %v", err)
	}
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		http.Error(w, "请求读取失败", http.StatusBadRequest)
		return
	}
	req, err := decodeRequest(body)
	if err == nil {
		err = s.Dispatch(req)
	}
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("Command accepted"))
	case errors.Is(err, simulation.ErrNotRunning), errors.Is(err, simulation.ErrNotIdle), errors.Is(err, simulation.ErrNotPaused):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
