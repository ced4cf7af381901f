package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	return conn
}

func TestBroadcastSurvivesStalledClient(t *testing.T) {
	e := newTestEngine(testConfig(), &mockExchangeClient{})
	s := NewWebServer(e)
	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	// 客户端完成握手后不再读取任何数据，套接字缓冲终将填满

	st := CurrentState{Klines: makeKlines(flatCloses(100, 100))}
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3000; i++ {
			s.BroadcastState(st)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("BroadcastState blocked on a non-reading client")
	}
}

func TestWSClientReceivesState(t *testing.T) {
	client := &mockExchangeClient{klines: makeRawKlines(oscillatingCloses(40, 100))}
	e := newTestEngine(testConfig(), client)
	e.runCycle(context.Background())

	s := NewWebServer(e)
	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	// 连接建立后应立刻收到当前快照
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var st CurrentState
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatal(err)
	}
	if st.CycleCount != 1 {
		t.Errorf("Expected snapshot of cycle 1, got %d", st.CycleCount)
	}

	// 周期发布后继续收到推送
	s.BroadcastState(e.CurrentState())
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatal(err)
	}
	if len(st.Klines) != 40 {
		t.Errorf("Expected 40 klines in pushed state, got %d", len(st.Klines))
	}
}

func TestActiveToggleEndpoint(t *testing.T) {
	e := newTestEngine(testConfig(), &mockExchangeClient{})
	s := NewWebServer(e)
	srv := httptest.NewServer(http.HandlerFunc(s.handleActive))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"active":false}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if e.Active() {
		t.Error("Expected engine to be paused after POST")
	}

	resp, err = http.Post(srv.URL, "application/json", strings.NewReader(`{"active":true}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !e.Active() {
		t.Error("Expected engine to be re-enabled after POST")
	}
}
