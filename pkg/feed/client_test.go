package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// 服务端握手后保持静默，读循环应在超时后退出并发出重连信号，
// 而不是在同一个失效连接上反复读取。
func TestReadLoop_SilentServerTriggersReconnect(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// 只收不发
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("连接测试服务器失败: %v", err)
	}
	defer conn.Close()

	c := NewClient(wsURL, []string{"a1"})
	c.readTimeout = 50 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.readLoop(context.Background(), conn)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("读循环在静默连接上没有退出")
	}

	select {
	case <-c.reconnectC.C():
	default:
		t.Fatal("读超时后没有发出重连信号")
	}
}
