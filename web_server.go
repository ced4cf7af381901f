package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// 单次 WS 写入的超时上限，超时视为客户端已死
const wsWriteTimeout = 5 * time.Second

// WebServer 简单的 Web 监控服务
// 前端只读核心发布的快照，唯一能写的是系统开关
// 每个 WS 连接有独立的发送缓冲与写协程，慢客户端只会丢快照，
// 绝不反压到轮询循环
type WebServer struct {
	engine   *Engine
	upgrader websocket.Upgrader

	mu      sync.Mutex
	wsConns map[*websocket.Conn]chan CurrentState
}

// NewWebServer 创建 Web 服务
func NewWebServer(engine *Engine) *WebServer {
	return &WebServer{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		wsConns: make(map[*websocket.Conn]chan CurrentState),
	}
}

// Start 启动 HTTP 服务
func (s *WebServer) Start(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/log", s.handleLog)
	mux.HandleFunc("/api/active", s.handleActive)
	mux.HandleFunc("/ws", s.handleWS)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("🌍 Web Dashboard running at http://localhost%s", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Web Server Error: %v", err)
		}
	}()
}

func (s *WebServer) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.engine.CurrentState())
}

func (s *WebServer) handleLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.engine.CurrentState().RecentLog)
}

// handleActive 获取 / 切换系统开关
func (s *WebServer) handleActive(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"active": s.engine.Active()})
	case http.MethodPost:
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid json"})
			return
		}
		s.engine.SetActive(req.Active)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"active": req.Active})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleWS 升级连接并注册，之后每个周期结束推送一次最新快照
func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS upgrade error: %v", err)
		return
	}

	// 连接建立后的第一条推送在注册前入队，避免与连接清理竞争
	ch := make(chan CurrentState, 1)
	ch <- s.engine.CurrentState()

	s.mu.Lock()
	s.wsConns[conn] = ch
	s.mu.Unlock()

	go s.writePump(conn, ch)
	go s.readPump(conn)
}

// writePump 串行写出快照，单次写入超时即判定连接死亡
func (s *WebServer) writePump(conn *websocket.Conn, ch chan CurrentState) {
	for st := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(st); err != nil {
			s.unregister(conn)
			return
		}
	}
}

// readPump 消费入站帧，处理 close/ping 等控制帧，出错即清理连接
func (s *WebServer) readPump(conn *websocket.Conn) {
	defer s.unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// unregister 幂等地摘除连接：关闭发送通道并关闭底层连接
func (s *WebServer) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	ch, ok := s.wsConns[conn]
	if ok {
		delete(s.wsConns, conn)
		close(ch)
	}
	s.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

// BroadcastState 向所有 WS 连接投递快照，从不阻塞调用方
func (s *WebServer) BroadcastState(st CurrentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.wsConns {
		s.offer(ch, st)
	}
}

// offer 非阻塞投递：缓冲满时丢弃积压的旧快照，换入最新的
func (s *WebServer) offer(ch chan CurrentState, st CurrentState) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
