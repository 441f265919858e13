// internal/api/websocket.go
package api

import (
	"net/http"
	"time"

	"github.com/Corphon/TubeScribe/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket 升级器配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该进行更严格的检查
		return true
	},
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// ProgressWebSocket 推送异步任务进度。
// 连接后先发送当前状态快照，之后持续推送增量更新，
// 任务进入终态（completed/failed）时发送最后一帧并关闭连接。
func (h *Handler) ProgressWebSocket(c *gin.Context) {
	taskID := c.Param("task_id")
	tracker, exists := h.TaskService.GetTracker(taskID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// 升级失败时 gorilla 已写入HTTP错误响应
		return
	}
	defer conn.Close()

	if !exists {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		conn.WriteJSON(gin.H{
			"error": "Task not found",
			"code":  ErrorTaskNotFound,
		})
		return
	}

	// 先发送当前快照，订阅放在快照之前避免漏掉更新
	updates := tracker.Subscribe()
	defer tracker.Unsubscribe(updates)

	snapshot := tracker.Snapshot()
	if err := h.writeProgress(conn, services.ProgressUpdate{
		Progress: snapshot.Progress,
		Message:  snapshot.Message,
		Status:   snapshot.Status,
	}); err != nil {
		return
	}
	if snapshot.Status != services.TaskStatusRunning {
		return
	}

	// 读取协程用于感知客户端主动断开
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case update := <-updates:
			if err := h.writeProgress(conn, update); err != nil {
				return
			}
			if update.Status != services.TaskStatusRunning {
				return
			}

		case <-tracker.Done():
			// 订阅通道可能已满被丢帧，终态以快照为准
			final := tracker.Snapshot()
			h.writeProgress(conn, services.ProgressUpdate{
				Progress: final.Progress,
				Message:  final.Message,
				Status:   final.Status,
			})
			return

		case <-clientGone:
			return

		case <-pingTicker.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// writeProgress 带写超时推送一帧进度
func (h *Handler) writeProgress(conn *websocket.Conn, update services.ProgressUpdate) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(update)
}
