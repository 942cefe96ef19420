package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"circuitsim/utils"
)

// direct 发给单个连接的消息
type direct struct {
	conn *websocket.Conn
	data []byte
}

// hub 管理浏览器连接,所有写操作都在 run 中完成
type hub struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	register  chan *websocket.Conn
	remove    chan *websocket.Conn
	broadcast chan []byte
	reply     chan direct
	quit      chan struct{}
	done      chan struct{}
}

func newHub() *hub {
	h := &hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		register:  make(chan *websocket.Conn),
		remove:    make(chan *websocket.Conn),
		broadcast: make(chan []byte, 64),
		reply:     make(chan direct, 16),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *hub) run() {
	defer close(h.done)
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.remove:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case msg := <-h.broadcast:
			for conn := range h.clients {
				h.write(conn, msg)
			}
		case d := <-h.reply:
			if h.clients[d.conn] {
				h.write(d.conn, d.data)
			}
		case <-h.quit:
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return
		}
	}
}

func (h *hub) write(conn *websocket.Conn, msg []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		utils.GetLogger().Warnf("向浏览器发送失败: %v", err)
		delete(h.clients, conn)
		conn.Close()
	}
}

// send 广播,hub 已关闭时丢弃
func (h *hub) send(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// sendTo 单独回复
func (h *hub) sendTo(conn *websocket.Conn, msg []byte) {
	select {
	case h.reply <- direct{conn: conn, data: msg}:
	case <-h.done:
	}
}

// handle 升级连接并读取控制消息
func (h *hub) handle(s *Server, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.GetLogger().Errorf("WebSocket 升级失败: %v", err)
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	if data, err := encode("simulation-state", s.session.Snapshot()); err == nil {
		h.sendTo(conn, data)
	}

	go func() {
		defer func() {
			select {
			case h.remove <- conn:
			case <-h.done:
			}
		}()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					utils.GetLogger().Warnf("WebSocket 错误: %v", err)
				}
				return
			}
			req, err := decodeRequest(message)
			if err == nil {
				err = s.Dispatch(req)
			}
			if err != nil {
				utils.GetLogger().Debugf("控制消息处理失败: %v", err)
				if data, e := encode("error", errorMessage{Message: err.Error(), Request: req.Type}); e == nil {
					h.sendTo(conn, data)
				}
			}
		}
	}()
}

func (h *hub) close() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}
