package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 重载通知的写超时与心跳间隔
const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 沙箱渲染端与宿主同源，放行本地连接
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadMessage 推送给渲染端的重载通知
type reloadMessage struct {
	Type     string `json:"type"` // 恒为 "reload"
	Revision uint64 `json:"revision"`
}

// handleSandboxWS 沙箱重载通知通道
//
// 文档每次整体替换后推送新版本号，渲染端收到即整体重载。
// 连接建立时先推一次当前版本，补上连接前错过的替换。
func (s *Server) handleSandboxWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warnf("websocket升级失败: %v", err)
		}
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	watchID, notify := s.docs.Watch()
	defer s.docs.Unwatch(watchID)

	// 读循环只为感知断连
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_, revision := s.docs.Current()
	if err := writeReload(conn, revision); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case revision, ok := <-notify:
			if !ok {
				return
			}
			if err := writeReload(conn, revision); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeReload 推送单条重载通知
func writeReload(conn *websocket.Conn, revision uint64) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(reloadMessage{Type: "reload", Revision: revision})
}

// formatRevision 版本号的十进制文本形式
func formatRevision(revision uint64) string {
	return strconv.FormatUint(revision, 10)
}
